package events

import (
	"context"
	"encoding/json"
	"time"

	"booksync/internal/config"
	"booksync/internal/logger"

	"github.com/segmentio/kafka-go"
)

const TopicBookEvents = "book-events"

const TypeBookSynced = "book.synced"

// Event is the message emitted after a successful sync. The worker picks
// these up to audit catalog quality.
type Event struct {
	Type       string    `json:"type"`
	BookID     string    `json:"book_id"`
	ExternalID string    `json:"external_id"`
	ProductID  string    `json:"product_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(cfg *config.Config, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers),
		Topic:        TopicBookEvents,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// BookSynced publishes a book.synced event keyed by external id, so all
// events for one book land on the same partition in order.
func (p *Publisher) BookSynced(ctx context.Context, bookID, externalID, productID string) error {
	event := Event{
		Type:       TypeBookSynced,
		BookID:     bookID,
		ExternalID: externalID,
		ProductID:  productID,
		Timestamp:  time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(externalID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
