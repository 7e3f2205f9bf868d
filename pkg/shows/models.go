package shows

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Show is a piece of content managed by the CMS: a podcast episode, a
// documentary or an imported video. Title is the uniqueness key used for
// duplicate detection during imports.
type Show struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	Type            string                     `gorm:"not null;index" json:"type"`
	Title           string                     `gorm:"uniqueIndex;not null" json:"title"`
	Description     string                     `gorm:"type:text" json:"description"`
	Language        string                     `gorm:"index" json:"language"`
	DurationSeconds int                        `json:"duration_seconds"`
	PublishedAt     *time.Time                 `json:"published_at,omitempty"`
	Tags            datatypes.JSONSlice[string] `json:"tags,omitempty"`
	ExternalID      string                     `gorm:"index" json:"external_id,omitempty"`
	SourceProvider  string                     `gorm:"index" json:"source_provider,omitempty"`
	CreatedBy       string                     `json:"created_by"`
	UpdatedBy       string                     `json:"updated_by"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func (Show) TableName() string {
	return "shows"
}

const (
	EventShowCreated = "show.created"
	EventShowUpdated = "show.updated"
	EventShowDeleted = "show.deleted"
)

// Event is published to the show events topic whenever content changes, so
// the discovery service can keep its index current.
type Event struct {
	Type      string    `json:"type"`
	Show      Show      `json:"show"`
	Timestamp time.Time `json:"timestamp"`
}

type CreateUpdateRequest struct {
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Language        string     `json:"language"`
	DurationSeconds int        `json:"duration_seconds"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
}
