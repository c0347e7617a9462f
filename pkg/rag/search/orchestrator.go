package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/pkg/embedding"
	"clinical-notes-be/pkg/events"
	"clinical-notes-be/pkg/notetext"
	"clinical-notes-be/pkg/rag/ranker"
	"clinical-notes-be/pkg/utils"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const logModule = "SEARCH"

// ProviderSource resolves the embedding provider to use for one call.
type ProviderSource interface {
	Current(ctx context.Context) (embedding.EmbeddingProvider, error)
}

// EventPublisher receives EMBEDDING_REFRESHED notifications.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TextExtractor produces the searchable text of a note. It must be total.
type TextExtractor func(note *entity.Note) string

// SimilarNote is one ranked result.
type SimilarNote struct {
	NoteId uuid.UUID `json:"note_id"`
	Score  float64   `json:"score"`
}

// EmbedResult reports the record in effect for a note after EmbedNote.
// Refreshed is false when the stored record was reused.
type EmbedResult struct {
	Record    *entity.NoteEmbedding
	Refreshed bool
}

// Orchestrator ties extraction, fingerprinting, the provider, the store and the
// ranker together. Records are keyed by (note, model), so vectors of different
// providers never meet.
type Orchestrator struct {
	providers ProviderSource
	store     contract.NoteEmbeddingRepository
	extract   TextExtractor
	publisher EventPublisher
	logger    logger.ILogger
	tracer    trace.Tracer
	now       func() time.Time

	inflight  singleflight.Group
	mu        sync.Mutex
	flights   map[string]*flight
	flightSeq uint64
}

type Option func(*Orchestrator)

func WithExtractor(extract TextExtractor) Option {
	return func(o *Orchestrator) { o.extract = extract }
}

func WithPublisher(p EventPublisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates a new search orchestrator
func NewOrchestrator(providers ProviderSource, store contract.NoteEmbeddingRepository, log logger.ILogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers: providers,
		store:     store,
		extract:   notetext.Extract,
		logger:    log,
		tracer:    otel.Tracer("clinical-notes-be/pkg/rag/search"),
		now:       time.Now,
		flights:   map[string]*flight{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EmbedNote makes sure a current embedding exists for note under the active
// provider, computing it only when none is stored or the text changed.
// On any failure nothing is persisted.
func (o *Orchestrator) EmbedNote(ctx context.Context, note *entity.Note) (*EmbedResult, error) {
	if note == nil {
		return nil, errors.New("embed note: note is nil")
	}

	ctx, span := o.tracer.Start(ctx, "search.EmbedNote",
		trace.WithAttributes(attribute.String("note.id", note.Id.String())))
	defer span.End()

	res, err := o.embedNote(ctx, note)
	if err != nil {
		err = fmt.Errorf("embed note %s: %w", note.Id, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("embedding.model", res.Record.Model),
		attribute.Bool("embedding.refreshed", res.Refreshed),
	)
	return res, nil
}

// FindSimilar returns the k stored notes most similar to note under the active
// provider, best first. The query note itself is never part of the result.
// Rows that fail to decode are skipped and logged.
func (o *Orchestrator) FindSimilar(ctx context.Context, note *entity.Note, k int) ([]SimilarNote, error) {
	if note == nil {
		return nil, errors.New("find similar: note is nil")
	}

	ctx, span := o.tracer.Start(ctx, "search.FindSimilar",
		trace.WithAttributes(
			attribute.String("note.id", note.Id.String()),
			attribute.Int("search.k", k),
		))
	defer span.End()

	results, err := o.findSimilar(ctx, note, k)
	if err != nil {
		err = fmt.Errorf("find similar for note %s: %w", note.Id, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.results", len(results)))
	return results, nil
}

func (o *Orchestrator) findSimilar(ctx context.Context, note *entity.Note, k int) ([]SimilarNote, error) {
	if k <= 0 {
		return []SimilarNote{}, nil
	}

	res, err := o.embedNote(ctx, note)
	if err != nil {
		return nil, err
	}
	query := res.Record

	stored, err := o.store.FindAllByModel(ctx, query.Model)
	if err != nil {
		if !errors.Is(err, vector.ErrCorruptData) {
			return nil, fmt.Errorf("load embeddings for model %s: %w", query.Model, err)
		}
		o.logger.Warn(logModule, "Skipping undecodable embeddings", map[string]interface{}{
			"model": query.Model,
			"error": err.Error(),
		})
	}

	candidates := make([]ranker.Candidate, 0, len(stored))
	for _, e := range stored {
		if e.NoteId == note.Id {
			continue
		}
		candidates = append(candidates, ranker.Candidate{
			NoteId:     e.NoteId,
			Vector:     e.Vector,
			Dimensions: e.Dimensions,
		})
	}

	scored := ranker.Rank(query.Vector, candidates, k)
	results := make([]SimilarNote, len(scored))
	for i, s := range scored {
		results[i] = SimilarNote{NoteId: s.NoteId, Score: s.Score}
	}

	o.logger.Debug(logModule, "Similar notes ranked", map[string]interface{}{
		"note_id":    note.Id.String(),
		"model":      query.Model,
		"candidates": len(candidates),
		"returned":   len(results),
	})
	return results, nil
}

func (o *Orchestrator) embedNote(ctx context.Context, note *entity.Note) (*EmbedResult, error) {
	provider, err := o.providers.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve embedding provider: %w", err)
	}

	text := o.extract(note)
	hash := utils.Fingerprint(text)
	model := provider.ModelName()

	// Concurrent requests for the same note, model and text share one computation.
	// Each caller stops waiting on its own cancellation.
	key := note.Id.String() + "|" + model + "|" + hash
	ch, release := o.join(ctx, key, func(f *flight) (*EmbedResult, error) {
		return o.refresh(f, provider, note.Id, text, hash)
	})
	defer release()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*EmbedResult), nil
	}
}

func (o *Orchestrator) refresh(f *flight, provider embedding.EmbeddingProvider, noteId uuid.UUID, text, hash string) (*EmbedResult, error) {
	ctx := f.ctx
	model := provider.ModelName()
	dims := provider.Dimensions()

	existing, err := o.store.FindOne(ctx, noteId, model)
	if err != nil {
		if !errors.Is(err, vector.ErrCorruptData) {
			return nil, fmt.Errorf("load embedding: %w", err)
		}
		o.logger.Warn(logModule, "Stored embedding is corrupt, recomputing", map[string]interface{}{
			"note_id": noteId.String(),
			"model":   model,
			"error":   err.Error(),
		})
		existing = nil
	}

	if existing != nil && existing.ContentHash == hash && existing.Dimensions == dims {
		return &EmbedResult{Record: existing}, nil
	}

	result, err := provider.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(result.Values) != dims {
		return nil, fmt.Errorf("%w: model %s returned %d values, declared %d",
			vector.ErrDimensionMismatch, model, len(result.Values), dims)
	}

	// Callers that all gave up must not leave a record behind.
	if err := o.abandoned(f); err != nil {
		return nil, err
	}

	record := &entity.NoteEmbedding{
		NoteId:      noteId,
		Vector:      result.Values,
		Model:       model,
		Dimensions:  dims,
		ContentHash: hash,
		ComputedAt:  o.now().UTC(),
	}
	if err := o.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("store embedding: %w", err)
	}

	o.logger.Info(logModule, "Embedding refreshed", map[string]interface{}{
		"note_id":    noteId.String(),
		"model":      model,
		"dimensions": dims,
		"stale":      existing != nil,
	})
	o.publishRefreshed(ctx, record)

	return &EmbedResult{Record: record, Refreshed: true}, nil
}

func (o *Orchestrator) publishRefreshed(ctx context.Context, record *entity.NoteEmbedding) {
	if o.publisher == nil {
		return
	}
	event := events.NewEmbeddingRefreshed(record.NoteId, record.Model, record.Dimensions, record.ContentHash)
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn(logModule, "Failed to publish embedding event", map[string]interface{}{
			"note_id": record.NoteId.String(),
			"error":   err.Error(),
		})
	}
}
