package importer

import (
	"testing"
	"time"
)

func TestStatusClassification(t *testing.T) {
	active := []Status{StatusQueued, StatusProcessing, StatusFetching, StatusSaving, StatusRetrying}
	terminal := []Status{StatusCompleted, StatusFailed, StatusCancelled}

	for _, status := range active {
		if !status.IsActive() {
			t.Errorf("expected %s to be active", status)
		}
		if status.IsTerminal() {
			t.Errorf("expected %s not to be terminal", status)
		}
		if !status.Valid() {
			t.Errorf("expected %s to be valid", status)
		}
	}
	for _, status := range terminal {
		if status.IsActive() {
			t.Errorf("expected %s not to be active", status)
		}
		if !status.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
		if !status.Valid() {
			t.Errorf("expected %s to be valid", status)
		}
	}

	if Status("BOGUS").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestNewJobDefaults(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	job := NewJob("mock", "technology", start, end, true, "editor@example.com")

	if job.Status != StatusQueued {
		t.Fatalf("expected new job to be QUEUED, got %s", job.Status)
	}
	if job.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("expected a generated job id")
	}
	if job.CompletedAt != nil {
		t.Fatal("expected no completion time on a new job")
	}
	if !job.SkipDuplicates {
		t.Fatal("expected skip_duplicates to be carried")
	}
	if job.CreatedBy != "editor@example.com" {
		t.Fatalf("unexpected created_by: %s", job.CreatedBy)
	}
}

func TestMarkCompletedSetsCompletionTime(t *testing.T) {
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	job.UpdateProgress(10, 10, 8, 2)
	job.MarkCompleted("done")

	if job.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", job.Status)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completion time to be set")
	}
	if job.SuccessfulItems != 8 || job.FailedItems != 2 {
		t.Fatalf("unexpected counters: %d/%d", job.SuccessfulItems, job.FailedItems)
	}
}

func TestMarkFailedRecordsError(t *testing.T) {
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	job.MarkFailed("Import failed: boom", "boom")

	if job.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", job.Status)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completion time to be set")
	}
	if job.ErrorMessage == "" || job.ErrorDetails == "" {
		t.Fatal("expected error fields to be populated")
	}
}

func TestProgressPercentage(t *testing.T) {
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")

	if got := job.ProgressPercentage(); got != 0 {
		t.Fatalf("expected 0%% before any items, got %f", got)
	}

	job.UpdateProgress(4, 1, 1, 0)
	if got := job.ProgressPercentage(); got != 25 {
		t.Fatalf("expected 25%%, got %f", got)
	}

	job.UpdateProgress(4, 4, 3, 1)
	if got := job.ProgressPercentage(); got != 100 {
		t.Fatalf("expected 100%%, got %f", got)
	}
}
