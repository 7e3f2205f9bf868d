package shows

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/provider"
)

// EventPublisher publishes show change events for the discovery index.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload interface{}) error
}

type Service struct {
	repo   *Repository
	events EventPublisher
}

// NewService builds the show service. events may be nil, in which case no
// change events are published.
func NewService(repo *Repository, events EventPublisher) *Service {
	return &Service{repo: repo, events: events}
}

func (s *Service) Create(ctx context.Context, req CreateUpdateRequest, createdBy string) (*Show, error) {
	exists, err := s.repo.TitleExists(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrShowAlreadyExists
	}

	show := &Show{
		ID:              uuid.New(),
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		Language:        req.Language,
		DurationSeconds: req.DurationSeconds,
		PublishedAt:     req.PublishedAt,
		Tags:            req.Tags,
		CreatedBy:       createdBy,
		UpdatedBy:       createdBy,
	}
	if err := s.repo.Create(ctx, show); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, EventShowCreated, *show)
	return show, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Show, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, showType, language string, limit, offset int) ([]Show, error) {
	return s.repo.List(ctx, showType, language, limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req CreateUpdateRequest, updatedBy string) (*Show, error) {
	show, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	show.Type = req.Type
	show.Title = req.Title
	show.Description = req.Description
	show.Language = req.Language
	show.DurationSeconds = req.DurationSeconds
	show.PublishedAt = req.PublishedAt
	show.Tags = req.Tags
	show.UpdatedBy = updatedBy

	if err := s.repo.Update(ctx, show); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, EventShowUpdated, *show)
	return show, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	show, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, EventShowDeleted, *show)
	return nil
}

// SaveAllFromImport persists a fetched batch. With skipDuplicates, items
// whose title already exists are silently omitted from the returned slice.
// This is the batch persistence gateway consumed by the import worker.
func (s *Service) SaveAllFromImport(ctx context.Context, createdBy string, items []provider.ExternalItem, skipDuplicates bool) ([]Show, error) {
	if len(items) == 0 {
		return nil, nil
	}

	candidates := make([]*Show, 0, len(items))
	if skipDuplicates {
		titles := make([]string, 0, len(items))
		for _, item := range items {
			titles = append(titles, item.Title)
		}
		existing, err := s.repo.ExistingTitles(ctx, titles)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if existing[item.Title] {
				continue
			}
			candidates = append(candidates, showFromItem(item, createdBy))
		}
	} else {
		for _, item := range items {
			candidates = append(candidates, showFromItem(item, createdBy))
		}
	}

	if err := s.repo.CreateBatch(ctx, candidates); err != nil {
		return nil, err
	}

	saved := make([]Show, 0, len(candidates))
	for _, show := range candidates {
		saved = append(saved, *show)
		s.publishEvent(ctx, EventShowCreated, *show)
	}

	logger.Log.WithFields(map[string]interface{}{
		"fetched": len(items),
		"saved":   len(saved),
		"skipped": len(items) - len(saved),
	}).Info("Imported show batch persisted")

	return saved, nil
}

func showFromItem(item provider.ExternalItem, createdBy string) *Show {
	publishedAt := item.PublishedAt
	return &Show{
		ID:              uuid.New(),
		Type:            item.Type,
		Title:           item.Title,
		Description:     item.Description,
		Language:        item.Language,
		DurationSeconds: item.DurationSeconds,
		PublishedAt:     &publishedAt,
		ExternalID:      item.ExternalID,
		SourceProvider:  item.SourceProvider,
		CreatedBy:       createdBy,
		UpdatedBy:       createdBy,
	}
}

func (s *Service) publishEvent(ctx context.Context, eventType string, show Show) {
	if s.events == nil {
		return
	}
	event := Event{
		Type:      eventType,
		Show:      show,
		Timestamp: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, show.ID.String(), event); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"show_id": show.ID,
			"event":   eventType,
		}).Warn("Failed to publish show event")
	}
}
