package importer

import (
	"time"

	"github.com/google/uuid"
)

// JobMessage is the immutable payload carried on the import queues. A job may
// produce a new message on each retry; all messages for a job share JobID.
type JobMessage struct {
	JobID          uuid.UUID `json:"job_id"`
	Provider       string    `json:"provider"`
	RequestedBy    string    `json:"requested_by"`
	Topic          string    `json:"topic"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	SkipDuplicates bool      `json:"skip_duplicates"`
	RetryCount     int       `json:"retry_count"`
	MaxRetries     int       `json:"max_retries"`
	CreatedAt      time.Time `json:"created_at"`
	ScheduledAt    time.Time `json:"scheduled_at"`
}

func NewJobMessage(job *Job, maxRetries int) JobMessage {
	now := time.Now().UTC()
	return JobMessage{
		JobID:          job.ID,
		Provider:       job.Provider,
		RequestedBy:    job.CreatedBy,
		Topic:          job.Topic,
		StartDate:      job.StartDate,
		EndDate:        job.EndDate,
		SkipDuplicates: job.SkipDuplicates,
		RetryCount:     0,
		MaxRetries:     maxRetries,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// WithRetry derives the next attempt's message. The delay grows linearly with
// the attempt number, so scheduledAt strictly increases across retries.
func (m JobMessage) WithRetry(backoffUnit time.Duration) JobMessage {
	next := m
	next.RetryCount = m.RetryCount + 1
	next.ScheduledAt = time.Now().UTC().Add(time.Duration(next.RetryCount) * backoffUnit)
	return next
}

func (m JobMessage) CanRetry() bool {
	return m.RetryCount < m.MaxRetries
}
