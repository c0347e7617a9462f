package service

import (
	"context"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/pkg/events"
)

// INoteEventService bridges note lifecycle events from the bus onto the
// in-process embedding queue.
type INoteEventService interface {
	Handle(ctx context.Context, event events.Event) error
}

type noteEventService struct {
	publisher IPublisherService
	log       logger.ILogger
}

func NewNoteEventService(publisher IPublisherService, log logger.ILogger) INoteEventService {
	return &noteEventService{publisher: publisher, log: log}
}

// Handle returns an error only when the event should be redelivered.
func (s *noteEventService) Handle(ctx context.Context, event events.Event) error {
	var action string
	switch event.EventType() {
	case events.NoteCreated, events.NoteUpdated:
		action = dto.EmbedActionRefresh
	case events.NoteDeleted:
		action = dto.EmbedActionDelete
	default:
		return nil
	}

	noteId, err := events.NoteIdOf(event)
	if err != nil {
		s.log.Warn("EVENTS", "Ignoring event without a valid note id", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return nil
	}

	return s.publisher.PublishEmbed(ctx, noteId, action)
}
