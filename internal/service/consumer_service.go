package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/internal/repository/specification"
	"clinical-notes-be/internal/repository/unitofwork"
	"clinical-notes-be/pkg/embedding"
	"clinical-notes-be/pkg/vector"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const consumerModule = "CONSUMER"

type IConsumerService interface {
	// Consume starts the queue router and returns once it is running.
	Consume(ctx context.Context) error
	// Wait blocks until the router has stopped.
	Wait()
}

// ConsumerConfig sizes the queue workers. Concurrency is the number of queue
// partitions, each drained by its own handler. A failing message is retried
// MaxRetries times with exponential backoff starting at RetryBackoff, then
// parked on the poison topic.
type ConsumerConfig struct {
	TopicName    string
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
}

func (c ConsumerConfig) PoisonTopic() string {
	return c.TopicName + ".poison"
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	cfg        ConsumerConfig
	uowFactory unitofwork.RepositoryFactory
	embedder   NoteEmbedder
	store      contract.NoteEmbeddingRepository
	log        logger.ILogger
	done       chan struct{}
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	cfg ConsumerConfig,
	uowFactory unitofwork.RepositoryFactory,
	embedder NoteEmbedder,
	store contract.NoteEmbeddingRepository,
	log logger.ILogger,
) IConsumerService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}
	return &consumerService{
		pubSub:     pubSub,
		cfg:        cfg,
		uowFactory: uowFactory,
		embedder:   embedder,
		store:      store,
		log:        log,
		done:       make(chan struct{}),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	router, err := cs.newRouter()
	if err != nil {
		return err
	}

	go func() {
		defer close(cs.done)
		if err := router.Run(ctx); err != nil {
			cs.log.Error(consumerModule, "Router stopped with error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
	go func() {
		<-ctx.Done()
		_ = router.Close()
	}()

	select {
	case <-router.Running():
		return nil
	case <-cs.done:
		return errors.New("consumer router exited before running")
	}
}

func (cs *consumerService) Wait() {
	<-cs.done
}

func (cs *consumerService) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NopLogger{})
	if err != nil {
		return nil, err
	}

	poison, err := middleware.PoisonQueueWithFilter(cs.pubSub, cs.cfg.PoisonTopic(), func(err error) bool {
		return !errors.Is(err, context.Canceled)
	})
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		poison,
		middleware.Retry{
			MaxRetries:      cs.cfg.MaxRetries,
			InitialInterval: cs.cfg.RetryBackoff,
			MaxInterval:     30 * cs.cfg.RetryBackoff,
			Multiplier:      2,
			ShouldRetry: func(params middleware.RetryParams) bool {
				return cs.cfg.MaxRetries > 0 && !errors.Is(params.Err, context.Canceled)
			},
			OnRetryHook: func(retryNum int, delay time.Duration) {
				cs.log.Warn(consumerModule, "Retrying message", map[string]interface{}{
					"retry": retryNum,
					"delay": delay.String(),
				})
			},
		}.Middleware,
		middleware.Recoverer,
	)

	for i := 0; i < cs.cfg.Concurrency; i++ {
		router.AddNoPublisherHandler(
			fmt.Sprintf("embed-note-%d", i),
			fmt.Sprintf("%s.%d", cs.cfg.TopicName, i),
			cs.pubSub,
			cs.handleMessage,
		)
	}

	router.AddNoPublisherHandler(
		"embed-note-poison",
		cs.cfg.PoisonTopic(),
		cs.pubSub,
		cs.handlePoisoned,
	)

	return router, nil
}

// handleMessage returns nil for messages that can never succeed, so they are
// acked and dropped, and an error for transient failures so they are retried.
func (cs *consumerService) handleMessage(msg *message.Message) error {
	ctx := msg.Context()

	var payload dto.PublishEmbedNoteMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error(consumerModule, "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	details := map[string]interface{}{
		"note_id": payload.NoteId.String(),
		"action":  payload.Action,
	}

	if payload.Action == dto.EmbedActionDelete {
		if err := cs.store.DeleteByNoteId(ctx, payload.NoteId); err != nil {
			details["error"] = err.Error()
			cs.log.Error(consumerModule, "Failed to delete embeddings", details)
			return err
		}
		cs.log.Info(consumerModule, "Embeddings deleted", details)
		return nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: payload.NoteId})
	if err != nil {
		details["error"] = err.Error()
		cs.log.Error(consumerModule, "Failed to load note", details)
		return err
	}
	if note == nil {
		cs.log.Warn(consumerModule, "Note not found, skipping", details)
		return nil
	}

	res, err := cs.embedder.EmbedNote(ctx, note)
	if err != nil {
		details["error"] = err.Error()
		if isPermanentEmbedError(err) {
			cs.log.Error(consumerModule, "Dropping note that cannot be embedded", details)
			return nil
		}
		cs.log.Warn(consumerModule, "Failed to embed note", details)
		return err
	}

	details["model"] = res.Record.Model
	details["refreshed"] = res.Refreshed
	cs.log.Info(consumerModule, "Note processed", details)
	return nil
}

func (cs *consumerService) handlePoisoned(msg *message.Message) error {
	cs.log.Error(consumerModule, "Message moved to poison queue", map[string]interface{}{
		"message_uuid": msg.UUID,
		"reason":       msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		"payload":      string(msg.Payload),
	})
	return nil
}

// isPermanentEmbedError reports failures that retrying cannot fix.
func isPermanentEmbedError(err error) bool {
	return errors.Is(err, embedding.ErrMissingCredential) ||
		errors.Is(err, vector.ErrDimensionMismatch) ||
		errors.Is(err, vector.ErrCorruptData)
}
