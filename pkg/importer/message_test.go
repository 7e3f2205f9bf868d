package importer

import (
	"testing"
	"time"
)

func TestNewJobMessageCarriesJobFields(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	job := NewJob("youtube", "science", start, end, true, "editor@example.com")

	message := NewJobMessage(job, 3)

	if message.JobID != job.ID {
		t.Fatal("expected message to carry the job id")
	}
	if message.RetryCount != 0 {
		t.Fatalf("expected fresh message to have retry count 0, got %d", message.RetryCount)
	}
	if message.MaxRetries != 3 {
		t.Fatalf("expected max retries 3, got %d", message.MaxRetries)
	}
	if message.ScheduledAt.After(time.Now().UTC().Add(time.Second)) {
		t.Fatal("expected fresh message to be scheduled immediately")
	}
}

func TestWithRetryIncreasesDelay(t *testing.T) {
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	message := NewJobMessage(job, 3)
	backoff := time.Minute

	first := message.WithRetry(backoff)
	second := first.WithRetry(backoff)
	third := second.WithRetry(backoff)

	if first.RetryCount != 1 || second.RetryCount != 2 || third.RetryCount != 3 {
		t.Fatalf("unexpected retry counts: %d, %d, %d",
			first.RetryCount, second.RetryCount, third.RetryCount)
	}

	now := time.Now().UTC()
	if first.ScheduledAt.Before(now.Add(backoff - 5*time.Second)) {
		t.Fatal("expected first retry to be delayed by about one backoff unit")
	}
	if !second.ScheduledAt.After(first.ScheduledAt) {
		t.Fatal("expected second retry to be scheduled after the first")
	}
	if !third.ScheduledAt.After(second.ScheduledAt) {
		t.Fatal("expected third retry to be scheduled after the second")
	}

	// The original message is untouched.
	if message.RetryCount != 0 {
		t.Fatalf("expected original message to keep retry count 0, got %d", message.RetryCount)
	}
}

func TestCanRetryExhaustsBudget(t *testing.T) {
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	message := NewJobMessage(job, 2)

	if !message.CanRetry() {
		t.Fatal("expected fresh message to be retryable")
	}
	once := message.WithRetry(time.Second)
	if !once.CanRetry() {
		t.Fatal("expected message to be retryable after one attempt")
	}
	twice := once.WithRetry(time.Second)
	if twice.CanRetry() {
		t.Fatal("expected retry budget to be exhausted after two attempts")
	}
}
