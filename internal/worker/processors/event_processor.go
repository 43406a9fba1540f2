package processors

import (
	"booksync/internal/config"
	"booksync/internal/events"
	"booksync/internal/logger"
	"booksync/internal/worker/processors/validation"

	"gorm.io/gorm"
)

type EventProcessor struct {
	config    *config.Config
	logger    *logger.Logger
	validator *validation.Validator
}

func NewEventProcessor(cfg *config.Config, logger *logger.Logger, db *gorm.DB) *EventProcessor {
	return &EventProcessor{
		config:    cfg,
		logger:    logger,
		validator: validation.New(db, logger),
	}
}

func (ep *EventProcessor) Process(event events.Event) error {
	switch event.Type {
	case events.TypeBookSynced:
		return ep.validator.ValidateBook(event.BookID)
	default:
		ep.logger.Debug("Unhandled event type: %s", event.Type)
		return nil
	}
}
