package provider

import (
	"context"
	"fmt"
	"time"
)

// ExternalItem is one piece of content returned by an external provider,
// before it is persisted as a show.
type ExternalItem struct {
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	DurationSeconds int       `json:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at"`
	ExternalID      string    `json:"external_id"`
	SourceProvider  string    `json:"source_provider"`
}

// Provider is the uniform contract every external content adapter implements.
// Fetch returns items published within [start, end]; adapters whose upstream
// cannot filter server-side must filter the returned set themselves.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, topic string, start, end time.Time) ([]ExternalItem, error)
	IsAvailable() bool
	MaxBatchSize() int
	RateLimitPerMinute() int
}

// Error wraps any transport, auth or quota failure raised by an adapter.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(provider, message string, err error) *Error {
	return &Error{Provider: provider, Message: message, Err: err}
}

// filterByDateRange keeps items whose published date falls inside the
// inclusive [start, end] window. Used by adapters without server-side filters.
func filterByDateRange(items []ExternalItem, start, end time.Time) []ExternalItem {
	filtered := make([]ExternalItem, 0, len(items))
	for _, item := range items {
		if item.PublishedAt.Before(start) || item.PublishedAt.After(end) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
