package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mediaforge/cms-platform/pkg/provider"
)

func newTestWorker(p provider.Provider, gateway ShowGateway) (*Worker, *MemoryJobStore, *fakePublisher, *fakePublisher, *fakePublisher) {
	store := NewMemoryJobStore()
	registry := provider.NewRegistry(p)
	main := &fakePublisher{}
	retry := &fakePublisher{}
	dlq := &fakePublisher{}
	worker := NewWorker(registry, store, gateway, main, retry, dlq, time.Minute, time.Minute)
	return worker, store, main, retry, dlq
}

func queuedMessage(store *MemoryJobStore, providerName string, maxRetries int) JobMessage {
	job := NewJob(providerName, "tech", time.Now().UTC(), time.Now().UTC(), false, "tester")
	store.Save(job)
	return NewJobMessage(job, maxRetries)
}

func TestProcessCompletesJob(t *testing.T) {
	gateway := &fakeGateway{}
	p := &stubProvider{name: "stub", available: true, items: sampleItems(5)}
	worker, store, _, retry, dlq := newTestWorker(p, gateway)

	message := queuedMessage(store, "stub", 3)
	worker.Process(context.Background(), message)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", job.Status)
	}
	if job.TotalItems != 5 || job.SuccessfulItems != 5 || job.FailedItems != 0 {
		t.Fatalf("unexpected counters: %+v", job)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completion time")
	}
	if len(retry.published()) != 0 || len(dlq.published()) != 0 {
		t.Fatal("expected no retry or DLQ traffic on success")
	}
	if len(gateway.saved) != 5 {
		t.Fatalf("expected 5 items saved, got %d", len(gateway.saved))
	}
}

func TestProcessMockProviderEndToEnd(t *testing.T) {
	gateway := &fakeGateway{}
	worker, store, _, _, _ := newTestWorker(provider.NewMock(true, 0), gateway)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	job := NewJob("mock", "technology", start, end, false, "tester")
	store.Save(job)

	worker.Process(context.Background(), NewJobMessage(job, 3))

	stored, _ := store.Get(job.ID)
	if stored.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", stored.Status)
	}
	if stored.TotalItems != 7 || stored.SuccessfulItems != 7 || stored.FailedItems != 0 {
		t.Fatalf("unexpected counters: total=%d successful=%d failed=%d",
			stored.TotalItems, stored.SuccessfulItems, stored.FailedItems)
	}
}

func TestProcessCountsSkippedDuplicates(t *testing.T) {
	gateway := &fakeGateway{skip: 2}
	p := &stubProvider{name: "stub", available: true, items: sampleItems(5)}
	worker, store, _, _, _ := newTestWorker(p, gateway)

	job := NewJob("stub", "tech", time.Now().UTC(), time.Now().UTC(), true, "tester")
	store.Save(job)
	worker.Process(context.Background(), NewJobMessage(job, 3))

	stored, _ := store.Get(job.ID)
	if stored.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", stored.Status)
	}
	if stored.TotalItems != 5 || stored.SuccessfulItems != 3 || stored.FailedItems != 2 {
		t.Fatalf("unexpected counters: total=%d successful=%d failed=%d",
			stored.TotalItems, stored.SuccessfulItems, stored.FailedItems)
	}
}

func TestProcessSchedulesRetryOnFetchFailure(t *testing.T) {
	p := &stubProvider{name: "stub", available: true, fetchErr: errors.New("upstream 500")}
	worker, store, _, retry, dlq := newTestWorker(p, &fakeGateway{})

	message := queuedMessage(store, "stub", 3)
	worker.Process(context.Background(), message)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusRetrying {
		t.Fatalf("expected RETRYING, got %s", job.Status)
	}

	retried := retry.published()
	if len(retried) != 1 {
		t.Fatalf("expected one retry message, got %d", len(retried))
	}
	if retried[0].RetryCount != 1 {
		t.Fatalf("expected retry count 1, got %d", retried[0].RetryCount)
	}
	if !retried[0].ScheduledAt.After(time.Now().UTC().Add(30 * time.Second)) {
		t.Fatal("expected retry to be scheduled in the future")
	}
	if len(dlq.published()) != 0 {
		t.Fatal("expected no DLQ traffic while retries remain")
	}
}

func TestProcessFailsPermanentlyAfterBudget(t *testing.T) {
	p := &stubProvider{name: "stub", available: true, fetchErr: errors.New("upstream 500")}
	worker, store, _, retry, dlq := newTestWorker(p, &fakeGateway{})

	message := queuedMessage(store, "stub", 2)
	exhausted := message.WithRetry(time.Millisecond).WithRetry(time.Millisecond)
	exhausted.ScheduledAt = time.Now().UTC()
	worker.Process(context.Background(), exhausted)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", job.Status)
	}
	if job.ErrorMessage == "" {
		t.Fatal("expected error message on failed job")
	}
	if len(retry.published()) != 0 {
		t.Fatal("expected no further retries after budget exhaustion")
	}
	if len(dlq.published()) != 1 {
		t.Fatalf("expected one DLQ message, got %d", len(dlq.published()))
	}
}

func TestProcessUnknownProviderGoesThroughRetryPath(t *testing.T) {
	worker, store, _, retry, _ := newTestWorker(&stubProvider{name: "stub", available: true}, &fakeGateway{})

	message := queuedMessage(store, "ghost", 3)
	worker.Process(context.Background(), message)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusRetrying {
		t.Fatalf("expected RETRYING, got %s", job.Status)
	}
	if len(retry.published()) != 1 {
		t.Fatal("expected a retry message")
	}
}

func TestProcessSkipsTerminalJob(t *testing.T) {
	gateway := &fakeGateway{}
	p := &stubProvider{name: "stub", available: true, items: sampleItems(3)}
	worker, store, _, _, _ := newTestWorker(p, gateway)

	job := NewJob("stub", "tech", time.Now().UTC(), time.Now().UTC(), false, "tester")
	store.Save(job)
	message := NewJobMessage(job, 3)

	cancelled, _ := store.Get(job.ID)
	now := time.Now().UTC()
	cancelled.SetStatus(StatusCancelled, "Job cancelled by user: admin")
	cancelled.CompletedAt = &now
	store.Update(cancelled)

	worker.Process(context.Background(), message)

	stored, _ := store.Get(job.ID)
	if stored.Status != StatusCancelled {
		t.Fatalf("expected job to stay CANCELLED, got %s", stored.Status)
	}
	if len(gateway.saved) != 0 {
		t.Fatal("expected no items saved for a cancelled job")
	}
}

func TestProcessRebuildsLostJobRecord(t *testing.T) {
	gateway := &fakeGateway{}
	p := &stubProvider{name: "stub", available: true, items: sampleItems(2)}
	worker, store, _, _, _ := newTestWorker(p, gateway)

	// The record never reaches the store, as after a restart.
	job := NewJob("stub", "tech", time.Now().UTC(), time.Now().UTC(), false, "tester")
	message := NewJobMessage(job, 3)

	worker.Process(context.Background(), message)

	rebuilt, ok := store.Get(job.ID)
	if !ok {
		t.Fatal("expected job record to be rebuilt from the message")
	}
	if rebuilt.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", rebuilt.Status)
	}
}

func TestProcessSaveFailureRetries(t *testing.T) {
	gateway := &fakeGateway{saveErr: errors.New("database unavailable")}
	p := &stubProvider{name: "stub", available: true, items: sampleItems(2)}
	worker, store, _, retry, _ := newTestWorker(p, gateway)

	message := queuedMessage(store, "stub", 3)
	worker.Process(context.Background(), message)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusRetrying {
		t.Fatalf("expected RETRYING, got %s", job.Status)
	}
	if len(retry.published()) != 1 {
		t.Fatal("expected a retry message after save failure")
	}
}

func TestHandleFailureRetryPublishFailureEscalates(t *testing.T) {
	p := &stubProvider{name: "stub", available: true, fetchErr: errors.New("upstream 500")}
	worker, store, _, retry, dlq := newTestWorker(p, &fakeGateway{})
	retry.err = errors.New("broker down")

	message := queuedMessage(store, "stub", 3)
	worker.Process(context.Background(), message)

	job, _ := store.Get(message.JobID)
	if job.Status != StatusFailed {
		t.Fatalf("expected FAILED when the retry queue is unreachable, got %s", job.Status)
	}
	if len(dlq.published()) != 1 {
		t.Fatal("expected message in DLQ")
	}
}

func TestRedeliverWaitsForSchedule(t *testing.T) {
	worker, store, main, _, _ := newTestWorker(&stubProvider{name: "stub", available: true}, &fakeGateway{})

	message := queuedMessage(store, "stub", 3)
	message.RetryCount = 1
	message.ScheduledAt = time.Now().UTC().Add(50 * time.Millisecond)

	startedAt := time.Now()
	if err := worker.Redeliver(context.Background(), message); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(startedAt) < 40*time.Millisecond {
		t.Fatal("expected redelivery to wait for the scheduled time")
	}

	published := main.published()
	if len(published) != 1 {
		t.Fatalf("expected one republished message, got %d", len(published))
	}
	if published[0].RetryCount != 1 {
		t.Fatalf("expected retry count to be preserved, got %d", published[0].RetryCount)
	}
}

func TestRedeliverAbortsOnShutdown(t *testing.T) {
	worker, store, main, _, _ := newTestWorker(&stubProvider{name: "stub", available: true}, &fakeGateway{})

	message := queuedMessage(store, "stub", 3)
	message.ScheduledAt = time.Now().UTC().Add(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := worker.Redeliver(ctx, message); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(main.published()) != 0 {
		t.Fatal("expected no republish after shutdown")
	}
}
