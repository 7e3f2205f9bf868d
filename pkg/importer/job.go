package importer

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an import job. Terminal states are
// absorbing: a job never leaves COMPLETED, FAILED or CANCELLED.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusProcessing Status = "PROCESSING"
	StatusFetching   Status = "FETCHING"
	StatusSaving     Status = "SAVING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	StatusRetrying   Status = "RETRYING"
)

func (s Status) IsActive() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusFetching, StatusSaving, StatusRetrying:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	return s.IsActive() || s.IsTerminal()
}

// Job is one import attempt. The job status store owns the record; everything
// else refers to it by ID.
type Job struct {
	ID              uuid.UUID  `json:"job_id"`
	Provider        string     `json:"provider"`
	Topic           string     `json:"topic"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	SkipDuplicates  bool       `json:"skip_duplicates"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedBy       string     `json:"created_by"`
	TotalItems      int        `json:"total_items"`
	ProcessedItems  int        `json:"processed_items"`
	SuccessfulItems int        `json:"successful_items"`
	FailedItems     int        `json:"failed_items"`
	StatusMessage   string     `json:"status_message,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	ErrorDetails    string     `json:"error_details,omitempty"`
}

func NewJob(provider, topic string, start, end time.Time, skipDuplicates bool, createdBy string) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:             uuid.New(),
		Provider:       provider,
		Topic:          topic,
		StartDate:      start,
		EndDate:        end,
		SkipDuplicates: skipDuplicates,
		Status:         StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      createdBy,
	}
}

// SetStatus transitions the job and records the human-readable status line.
func (j *Job) SetStatus(status Status, message string) {
	j.Status = status
	j.StatusMessage = message
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) UpdateProgress(total, processed, successful, failed int) {
	j.TotalItems = total
	j.ProcessedItems = processed
	j.SuccessfulItems = successful
	j.FailedItems = failed
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) MarkCompleted(message string) {
	now := time.Now().UTC()
	j.Status = StatusCompleted
	j.StatusMessage = message
	j.CompletedAt = &now
	j.UpdatedAt = now
}

func (j *Job) MarkFailed(errorMessage, errorDetails string) {
	now := time.Now().UTC()
	j.Status = StatusFailed
	j.StatusMessage = errorMessage
	j.ErrorMessage = errorMessage
	j.ErrorDetails = errorDetails
	j.CompletedAt = &now
	j.UpdatedAt = now
}

func (j *Job) ProgressPercentage() float64 {
	if j.TotalItems == 0 {
		return 0
	}
	return float64(j.ProcessedItems) / float64(j.TotalItems) * 100
}
