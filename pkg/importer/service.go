package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/observability/metrics"
	"github.com/mediaforge/cms-platform/pkg/provider"
	"github.com/mediaforge/cms-platform/pkg/shows"
)

// Publisher is the slice of the queue transport the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

// ShowGateway persists fetched items. Duplicates skipped by the gateway are
// silently omitted from the returned slice, not reported as errors.
type ShowGateway interface {
	SaveAllFromImport(ctx context.Context, createdBy string, items []provider.ExternalItem, skipDuplicates bool) ([]shows.Show, error)
}

// ImportRequest is the validated dispatch input. Date-range ordering is
// checked at the HTTP boundary before it reaches the service.
type ImportRequest struct {
	Topic          string
	StartDate      time.Time
	EndDate        time.Time
	SkipDuplicates bool
}

// ProviderInfo is the catalog entry exposed for one registered provider.
type ProviderInfo struct {
	Available          bool `json:"available"`
	MaxBatchSize       int  `json:"max_batch_size"`
	RateLimitPerMinute int  `json:"rate_limit_per_minute"`
}

// Service is the import dispatcher: it validates providers, creates job
// records and hands messages to the queue transport. Submission and
// execution are decoupled: StartImport returns before any fetch happens.
type Service struct {
	registry     *provider.Registry
	store        JobStore
	producer     Publisher
	gateway      ShowGateway
	maxRetries   int
	fetchTimeout time.Duration
}

func NewService(registry *provider.Registry, store JobStore, producer Publisher, gateway ShowGateway, maxRetries int, fetchTimeout time.Duration) *Service {
	return &Service{
		registry:     registry,
		store:        store,
		producer:     producer,
		gateway:      gateway,
		maxRetries:   maxRetries,
		fetchTimeout: fetchTimeout,
	}
}

// StartImport creates a QUEUED job and publishes its message. On publish
// failure the job is marked FAILED synchronously, the one path where the
// dispatcher itself writes a terminal state.
func (s *Service) StartImport(ctx context.Context, providerName string, req ImportRequest, requestedBy string) (*Job, error) {
	p, ok := s.registry.Get(providerName)
	if !ok {
		return nil, &UnknownProviderError{Provider: providerName}
	}
	if !p.IsAvailable() {
		return nil, &ProviderUnavailableError{Provider: providerName}
	}

	job := NewJob(providerName, req.Topic, req.StartDate, req.EndDate, req.SkipDuplicates, requestedBy)
	job.SetStatus(StatusQueued, "Import job queued for processing")
	s.store.Save(job)

	message := NewJobMessage(job, s.maxRetries)
	if err := s.producer.Publish(ctx, job.ID.String(), message); err != nil {
		logger.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to queue import job")
		job.MarkFailed("Failed to queue job: "+err.Error(), err.Error())
		s.store.Update(job)
		return nil, &PublishError{Err: err}
	}

	metrics.JobQueued()
	logger.Log.WithFields(map[string]interface{}{
		"job_id":   job.ID,
		"provider": providerName,
		"user":     requestedBy,
	}).Info("Import job queued")

	return job, nil
}

func (s *Service) GetJob(id uuid.UUID) (*Job, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// CancelImport marks an active job CANCELLED. Cancellation is cooperative:
// an in-flight fetch is not interrupted, but the worker checks the record
// before committing further progress.
func (s *Service) CancelImport(id uuid.UUID, requestedBy string) (*Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}
	if !job.Status.IsActive() {
		return nil, &InvalidStateError{Operation: "cancel", Status: job.Status}
	}

	now := time.Now().UTC()
	job.SetStatus(StatusCancelled, "Job cancelled by user: "+requestedBy)
	job.CompletedAt = &now
	s.store.Update(job)

	logger.Log.WithFields(map[string]interface{}{
		"job_id": id,
		"user":   requestedBy,
	}).Info("Import job cancelled")

	return job, nil
}

// RetryImport republishes a FAILED job with a fresh retry budget.
func (s *Service) RetryImport(ctx context.Context, id uuid.UUID, requestedBy string) (*Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job.Status != StatusFailed {
		return nil, &InvalidStateError{Operation: "retry", Status: job.Status}
	}

	job.SetStatus(StatusQueued, "Job manually retried by user: "+requestedBy)
	job.CompletedAt = nil
	job.ErrorMessage = ""
	job.ErrorDetails = ""
	s.store.Update(job)

	message := NewJobMessage(job, s.maxRetries)
	if err := s.producer.Publish(ctx, job.ID.String(), message); err != nil {
		logger.Log.WithError(err).WithField("job_id", job.ID).Error("Failed to requeue import job")
		job.MarkFailed("Failed to queue job: "+err.Error(), err.Error())
		s.store.Update(job)
		return nil, &PublishError{Err: err}
	}

	logger.Log.WithFields(map[string]interface{}{
		"job_id": id,
		"user":   requestedBy,
	}).Info("Import job manually retried")

	return job, nil
}

// ListJobs returns a snapshot of job records, optionally filtered by status.
func (s *Service) ListJobs(statusFilter *Status) []*Job {
	jobs := s.store.List()
	if statusFilter == nil {
		return jobs
	}
	filtered := make([]*Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Status == *statusFilter {
			filtered = append(filtered, job)
		}
	}
	return filtered
}

// Providers returns the catalog of registered providers.
func (s *Service) Providers() map[string]ProviderInfo {
	catalog := make(map[string]ProviderInfo)
	for _, name := range s.registry.Names() {
		p, _ := s.registry.Get(name)
		catalog[name] = ProviderInfo{
			Available:          p.IsAvailable(),
			MaxBatchSize:       p.MaxBatchSize(),
			RateLimitPerMinute: p.RateLimitPerMinute(),
		}
	}
	return catalog
}

// ImportNow is the synchronous path: fetch and save inline, no queueing and
// no retries. Degenerate special case of the async pipeline.
func (s *Service) ImportNow(ctx context.Context, providerName string, req ImportRequest, requestedBy string) (*Job, error) {
	p, ok := s.registry.Get(providerName)
	if !ok {
		return nil, &UnknownProviderError{Provider: providerName}
	}
	if !p.IsAvailable() {
		return nil, &ProviderUnavailableError{Provider: providerName}
	}

	job := NewJob(providerName, req.Topic, req.StartDate, req.EndDate, req.SkipDuplicates, requestedBy)
	job.SetStatus(StatusFetching, "Fetching data from "+providerName)
	s.store.Save(job)

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	items, err := p.Fetch(fetchCtx, req.Topic, req.StartDate, req.EndDate)
	if err != nil {
		job.MarkFailed("Import failed: "+err.Error(), err.Error())
		s.store.Update(job)
		metrics.JobFailed()
		return nil, err
	}

	job.SetStatus(StatusSaving, "Saving data to database")
	job.UpdateProgress(len(items), 0, 0, 0)
	s.store.Update(job)

	saved, err := s.gateway.SaveAllFromImport(ctx, requestedBy, items, req.SkipDuplicates)
	if err != nil {
		job.MarkFailed("Import failed: "+err.Error(), err.Error())
		s.store.Update(job)
		metrics.JobFailed()
		return nil, err
	}

	successful := len(saved)
	failed := len(items) - successful
	job.UpdateProgress(len(items), len(items), successful, failed)
	job.MarkCompleted(fmt.Sprintf("Import completed. Total: %d, Successful: %d, Failed: %d",
		len(items), successful, failed))
	s.store.Update(job)
	metrics.JobCompleted(successful)

	return job, nil
}
