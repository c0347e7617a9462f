package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"clinical-notes-be/internal/bootstrap"
	"clinical-notes-be/internal/config"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/tracer"
	pktNats "clinical-notes-be/pkg/nats"
)

const durableName = "clinical-notes-embedder"

// The worker keeps note embeddings current: NOTE_CREATED/UPDATED/DELETED
// events from NATS are queued in-process, partitioned by note, and embedded
// by one handler per partition.
func main() {
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	shutdownTracer := tracer.InitTracer(tracer.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: "clinical-notes-worker",
	})
	defer shutdownTracer(context.Background())

	gormDB, err := bootstrap.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container, err := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Unable to build container: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start consumer: %v", err)
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		log.Fatalf("Unable to connect to NATS: %v", err)
	}
	defer sub.Close()

	// Non-note events are ignored by the handler.
	if err := sub.Subscribe(ctx, "events.>", durableName, container.NoteEventService.Handle); err != nil {
		log.Fatalf("Unable to subscribe: %v", err)
	}

	sysLogger.Info("WORKER", "Embedding worker started", map[string]interface{}{
		"concurrency": cfg.App.WorkerConcurrency,
		"max_retries": cfg.App.WorkerMaxRetries,
	})
	<-ctx.Done()
	sysLogger.Info("WORKER", "Shutting down", nil)
	container.ConsumerService.Wait()
}
