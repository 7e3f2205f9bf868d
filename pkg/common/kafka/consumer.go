package kafka

import (
	"context"

	"github.com/mediaforge/cms-platform/pkg/common/config"
	"github.com/mediaforge/cms-platform/pkg/common/logger"
	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

// MessageHandler processes one raw message. A nil return commits the offset;
// a non-nil return leaves the message uncommitted for redelivery.
type MessageHandler func(ctx context.Context, key, value []byte) error

func NewConsumer(topic string, groupID string) *Consumer {
	cfg := config.Load()
	if groupID == "" {
		groupID = cfg.KafkaGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader}
}

func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Log.WithError(err).Error("Failed to fetch message")
				continue
			}

			if err := handler(ctx, message.Key, message.Value); err != nil {
				logger.Log.WithError(err).WithFields(map[string]interface{}{
					"topic": c.reader.Config().Topic,
					"key":   string(message.Key),
				}).Error("Failed to process message")
				// Don't commit on error, will redeliver
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("Failed to commit message")
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
