package service

import (
	"context"
	"encoding/json"
	"fmt"

	"clinical-notes-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishEmbed(ctx context.Context, noteId uuid.UUID, action string) error
}

// ShardTopic names the queue partition a note's messages go to. Every message
// for one note lands on the same partition, so they are handled in order.
func ShardTopic(topicName string, shards int, noteId uuid.UUID) string {
	if shards < 1 {
		shards = 1
	}
	return fmt.Sprintf("%s.%d", topicName, xxhash.Sum64(noteId[:])%uint64(shards))
}

type publisherService struct {
	topicName string
	shards    int
	publisher message.Publisher
}

func NewPublisherService(topicName string, shards int, publisher message.Publisher) IPublisherService {
	if shards < 1 {
		shards = 1
	}
	return &publisherService{
		topicName: topicName,
		shards:    shards,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishEmbed(ctx context.Context, noteId uuid.UUID, action string) error {
	payload, err := json.Marshal(dto.PublishEmbedNoteMessage{NoteId: noteId, Action: action})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ShardTopic(ps.topicName, ps.shards, noteId), msg)
}
