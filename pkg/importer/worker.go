package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mediaforge/cms-platform/pkg/common/kafka"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/observability/metrics"
	"github.com/mediaforge/cms-platform/pkg/provider"
)

// Worker drives queued import jobs through the fetch-then-persist pipeline.
// Each worker slot consumes one message at a time; concurrency comes from
// running multiple slots, not from overlapping phases within one job.
type Worker struct {
	registry      *provider.Registry
	store         JobStore
	gateway       ShowGateway
	mainProducer  Publisher
	retryProducer Publisher
	dlqProducer   Publisher
	fetchTimeout  time.Duration
	backoffUnit   time.Duration
}

func NewWorker(registry *provider.Registry, store JobStore, gateway ShowGateway,
	mainProducer, retryProducer, dlqProducer Publisher,
	fetchTimeout, backoffUnit time.Duration) *Worker {
	return &Worker{
		registry:      registry,
		store:         store,
		gateway:       gateway,
		mainProducer:  mainProducer,
		retryProducer: retryProducer,
		dlqProducer:   dlqProducer,
		fetchTimeout:  fetchTimeout,
		backoffUnit:   backoffUnit,
	}
}

// Run starts the worker pool: `slots` consumers on the main topic sharing a
// consumer group, plus one consumer draining the retry topic. Blocks until
// the context is cancelled.
func (w *Worker) Run(ctx context.Context, mainTopic, retryTopic, groupID string, slots int) {
	if slots < 1 {
		slots = 1
	}
	for i := 0; i < slots; i++ {
		consumer := kafka.NewConsumer(mainTopic, groupID)
		go func(slot int) {
			defer consumer.Close()
			logger.Log.WithField("slot", slot).Info("Import worker slot started")
			if err := consumer.Consume(ctx, w.handleRaw); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).WithField("slot", slot).Error("Import worker slot stopped")
			}
		}(i)
	}

	retryConsumer := kafka.NewConsumer(retryTopic, groupID+"-retry")
	go func() {
		defer retryConsumer.Close()
		if err := retryConsumer.Consume(ctx, w.handleRetryRaw); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Error("Import retry consumer stopped")
		}
	}()

	<-ctx.Done()
}

func (w *Worker) handleRaw(ctx context.Context, key, value []byte) error {
	var message JobMessage
	if err := json.Unmarshal(value, &message); err != nil {
		logger.Log.WithError(err).WithField("key", string(key)).
			Error("Dropping malformed import message")
		w.publishToDLQ(ctx, string(key), json.RawMessage(value))
		return nil
	}
	// Job-level failures are resolved into retries or a FAILED record; they
	// never propagate past the worker boundary, so the offset always commits.
	w.Process(ctx, message)
	return nil
}

func (w *Worker) handleRetryRaw(ctx context.Context, key, value []byte) error {
	var message JobMessage
	if err := json.Unmarshal(value, &message); err != nil {
		logger.Log.WithError(err).WithField("key", string(key)).
			Error("Dropping malformed retry message")
		return nil
	}
	return w.Redeliver(ctx, message)
}

// Process executes one import attempt described by the message.
func (w *Worker) Process(ctx context.Context, message JobMessage) {
	log := logger.Log.WithFields(map[string]interface{}{
		"job_id":   message.JobID,
		"provider": message.Provider,
		"user":     message.RequestedBy,
		"attempt":  message.RetryCount,
	})
	log.Info("Processing import job")

	job := w.getOrCreateJob(message)

	// Stale redeliveries and cancelled jobs short-circuit here: a terminal
	// status is never left.
	if job.Status.IsTerminal() {
		log.WithField("status", job.Status).Info("Skipping message for terminal job")
		return
	}

	w.updateStatus(job, StatusProcessing, "Starting import process")

	p, ok := w.registry.Get(message.Provider)
	if !ok {
		w.handleFailure(ctx, job, message, &UnknownProviderError{Provider: message.Provider})
		return
	}
	if !p.IsAvailable() {
		w.handleFailure(ctx, job, message, &ProviderUnavailableError{Provider: message.Provider})
		return
	}

	w.updateStatus(job, StatusFetching, "Fetching data from "+message.Provider)

	fetchCtx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	items, err := p.Fetch(fetchCtx, message.Topic, message.StartDate, message.EndDate)
	cancel()
	if err != nil {
		w.handleFailure(ctx, job, message, err)
		return
	}
	log.WithField("count", len(items)).Info("Fetched items from provider")

	job.UpdateProgress(len(items), 0, 0, 0)
	w.store.Update(job)

	// Cooperative cancellation: re-read before committing the save phase.
	if current, ok := w.store.Get(job.ID); ok && current.Status.IsTerminal() {
		log.WithField("status", current.Status).Info("Job finished elsewhere, skipping save")
		return
	}

	w.updateStatus(job, StatusSaving, "Saving data to database")

	saved, err := w.gateway.SaveAllFromImport(ctx, message.RequestedBy, items, message.SkipDuplicates)
	if err != nil {
		w.handleFailure(ctx, job, message, err)
		return
	}

	successful := len(saved)
	failed := len(items) - successful
	job.UpdateProgress(len(items), len(items), successful, failed)
	job.MarkCompleted(fmt.Sprintf("Import completed. Total: %d, Successful: %d, Failed: %d",
		len(items), successful, failed))
	w.store.Update(job)
	metrics.JobCompleted(successful)

	log.WithFields(map[string]interface{}{
		"total":      len(items),
		"successful": successful,
		"failed":     failed,
	}).Info("Import job completed")
}

// Redeliver holds a retry message until its scheduled time, then republishes
// it to the main topic. The message already carries the incremented count.
func (w *Worker) Redeliver(ctx context.Context, message JobMessage) error {
	if delay := time.Until(message.ScheduledAt); delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return w.mainProducer.Publish(ctx, message.JobID.String(), message)
}

func (w *Worker) getOrCreateJob(message JobMessage) *Job {
	if job, ok := w.store.Get(message.JobID); ok {
		return job
	}
	// Redelivery after a restart: the volatile store lost the record, so
	// rebuild it from the message.
	job := NewJob(message.Provider, message.Topic, message.StartDate, message.EndDate,
		message.SkipDuplicates, message.RequestedBy)
	job.ID = message.JobID
	job.SetStatus(StatusQueued, "Import job queued for processing")
	w.store.Save(job)
	return job
}

func (w *Worker) updateStatus(job *Job, status Status, message string) {
	job.SetStatus(status, message)
	w.store.Update(job)

	logger.Log.WithFields(map[string]interface{}{
		"job_id": job.ID,
		"status": status,
	}).Debug("Job status updated")
}

func (w *Worker) handleFailure(ctx context.Context, job *Job, message JobMessage, cause error) {
	log := logger.Log.WithError(cause).WithField("job_id", job.ID)

	if message.CanRetry() {
		retryMessage := message.WithRetry(w.backoffUnit)
		w.updateStatus(job, StatusRetrying, fmt.Sprintf("Retrying import (attempt %d/%d): %v",
			retryMessage.RetryCount, message.MaxRetries, cause))

		if err := w.retryProducer.Publish(ctx, job.ID.String(), retryMessage); err != nil {
			log.WithError(err).Error("Failed to publish retry message, failing job")
			w.failPermanently(ctx, job, message, cause)
			return
		}

		metrics.JobRetried()
		log.WithFields(map[string]interface{}{
			"retry_count":  retryMessage.RetryCount,
			"max_retries":  message.MaxRetries,
			"scheduled_at": retryMessage.ScheduledAt,
		}).Warn("Import job failed, retry scheduled")
		return
	}

	w.failPermanently(ctx, job, message, cause)
}

func (w *Worker) failPermanently(ctx context.Context, job *Job, message JobMessage, cause error) {
	job.MarkFailed("Import failed: "+cause.Error(), fmt.Sprintf("%+v", cause))
	w.store.Update(job)
	metrics.JobFailed()

	w.publishToDLQ(ctx, job.ID.String(), message)

	logger.Log.WithError(cause).WithFields(map[string]interface{}{
		"job_id":      job.ID,
		"max_retries": message.MaxRetries,
	}).Error("Import job permanently failed")
}

func (w *Worker) publishToDLQ(ctx context.Context, key string, payload interface{}) {
	if w.dlqProducer == nil {
		return
	}
	if err := w.dlqProducer.Publish(ctx, key, payload); err != nil {
		logger.Log.WithError(err).WithField("key", key).Error("Failed to publish to DLQ")
	}
}
