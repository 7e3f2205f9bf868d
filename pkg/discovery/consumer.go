package discovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/mediaforge/cms-platform/pkg/observability/metrics"
	"github.com/mediaforge/cms-platform/pkg/shows"
)

// Indexer applies show change events to the search index. It is the
// message handler for the show events topic.
type Indexer struct {
	index *Index
}

func NewIndexer(index *Index) *Indexer {
	return &Indexer{index: index}
}

func (ix *Indexer) HandleMessage(ctx context.Context, key, value []byte) error {
	var event shows.Event
	if err := json.Unmarshal(value, &event); err != nil {
		// A malformed event can never succeed, so drop it instead of
		// blocking the partition.
		logger.Log.WithError(err).WithField("key", string(key)).Warn("Dropping malformed show event")
		return nil
	}

	var err error
	switch event.Type {
	case shows.EventShowCreated, shows.EventShowUpdated:
		err = ix.index.IndexShow(ctx, event.Show)
	case shows.EventShowDeleted:
		err = ix.index.RemoveShow(ctx, event.Show.ID)
	default:
		logger.Log.WithField("event_type", event.Type).Warn("Ignoring unknown show event type")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s event for show %s: %w", event.Type, event.Show.ID, err)
	}

	metrics.ShowEventIndexed()
	logger.Log.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"show_id":    event.Show.ID,
	}).Debug("Applied show event to search index")
	return nil
}
