package bootstrap

import (
	"context"
	"fmt"

	"clinical-notes-be/internal/config"
	"clinical-notes-be/internal/controller"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/internal/repository/implementation"
	"clinical-notes-be/internal/repository/memory"
	redisRepo "clinical-notes-be/internal/repository/redis"
	"clinical-notes-be/internal/repository/unitofwork"
	"clinical-notes-be/internal/service"
	"clinical-notes-be/pkg/admin/aiconfig"
	"clinical-notes-be/pkg/embedding/factory"
	pktNats "clinical-notes-be/pkg/nats"
	"clinical-notes-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	StoreSQL   = "sql"
	StoreRedis = "redis"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	SimilarCaseController    controller.ISimilarCaseController
	EmbeddingAdminController controller.IEmbeddingAdminController

	// Services shared by the REST server, the worker and the CLI
	SettingsService    service.ISettingsService
	SimilarCaseService service.ISimilarCaseService
	ReindexService     service.IReindexService
	ConsumerService    service.IConsumerService
	NoteEventService   service.INoteEventService
	Selector           *factory.Selector
	Orchestrator       *search.Orchestrator

	closers []func()
}

// NewContainer wires the application graph. NATS and Redis are optional: a
// NATS URL enables EMBEDDING_REFRESHED publishing, and EMBEDDING_STORE=redis
// moves vectors out of the SQL database.
func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	store, err := c.newEmbeddingStore(db, cfg)
	if err != nil {
		return nil, err
	}

	// 2. Runtime settings and provider selection
	settingsService := service.NewSettingsService(uowFactory, aiconfig.NewManager())
	selector, err := factory.NewSelector(factory.Config{
		DefaultProvider:  cfg.Embedding.Provider,
		LocalBackend:     cfg.Embedding.LocalBackend,
		LocalModel:       cfg.Embedding.LocalModel,
		LocalDimensions:  cfg.Embedding.LocalDimensions,
		OllamaBaseURL:    cfg.Embedding.OllamaBaseURL,
		RemoteModel:      cfg.Embedding.RemoteModel,
		RemoteDimensions: cfg.Embedding.RemoteDimensions,
		RemoteBaseURL:    cfg.Embedding.RemoteBaseURL,
		OpenAIKey:        cfg.Embedding.OpenAIAPIKey,
	}, settingsService)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init embedding providers: %w", err)
	}

	// 3. Event Bus
	opts := []search.Option{}
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS publisher unavailable, embedding events disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			c.closers = append(c.closers, natsPub.Close)
			opts = append(opts, search.WithPublisher(natsPub))
		}
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 4. Services
	orchestrator := search.NewOrchestrator(selector, store, sysLogger, opts...)
	publisherService := service.NewPublisherService(cfg.App.EmbedTopicName, cfg.App.WorkerConcurrency, pubSub)

	c.Selector = selector
	c.Orchestrator = orchestrator
	c.SettingsService = settingsService
	c.SimilarCaseService = service.NewSimilarCaseService(uowFactory, orchestrator, sysLogger, cfg.Search.DefaultTopK, cfg.Search.MaxTopK)
	c.ReindexService = service.NewReindexService(uowFactory, selector, orchestrator, store, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.ConsumerConfig{
			TopicName:    cfg.App.EmbedTopicName,
			Concurrency:  cfg.App.WorkerConcurrency,
			MaxRetries:   cfg.App.WorkerMaxRetries,
			RetryBackoff: cfg.App.WorkerRetryBackoff,
		},
		uowFactory,
		orchestrator,
		store,
		sysLogger,
	)
	c.NoteEventService = service.NewNoteEventService(publisherService, sysLogger)

	// 5. Controllers
	c.SimilarCaseController = controller.NewSimilarCaseController(c.SimilarCaseService)
	c.EmbeddingAdminController = controller.NewEmbeddingAdminController(settingsService, c.ReindexService)

	return c, nil
}

func (c *Container) newEmbeddingStore(db *gorm.DB, cfg *config.Config) (contract.NoteEmbeddingRepository, error) {
	var store contract.NoteEmbeddingRepository

	switch cfg.Embedding.Store {
	case "", StoreSQL:
		store = implementation.NewNoteEmbeddingRepository(db)
	case StoreRedis:
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			c.Logger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{
				"error": err.Error(),
			})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		store = redisRepo.NewNoteEmbeddingRepository(rdb)
	default:
		return nil, fmt.Errorf("unsupported embedding store: %s (supported: sql, redis)", cfg.Embedding.Store)
	}

	if cfg.Embedding.CacheTTL > 0 {
		store = memory.NewCachedNoteEmbeddingRepository(store, cfg.Embedding.CacheTTL)
	}
	return store, nil
}

// Close releases the connections opened by NewContainer, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
