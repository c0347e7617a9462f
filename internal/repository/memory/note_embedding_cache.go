package memory

import (
	"context"
	"strings"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CachedNoteEmbeddingRepository keeps recently read or written records in
// process memory in front of another store. Only FindOne is served from the
// cache; bulk reads always go to the backing store.
type CachedNoteEmbeddingRepository struct {
	next  contract.NoteEmbeddingRepository
	cache *cache.Cache
}

func NewCachedNoteEmbeddingRepository(next contract.NoteEmbeddingRepository, ttl time.Duration) *CachedNoteEmbeddingRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedNoteEmbeddingRepository{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(noteId uuid.UUID, model string) string {
	return noteId.String() + "|" + model
}

func (r *CachedNoteEmbeddingRepository) Upsert(ctx context.Context, e *entity.NoteEmbedding) error {
	if err := r.next.Upsert(ctx, e); err != nil {
		r.cache.Delete(cacheKey(e.NoteId, e.Model))
		return err
	}
	r.cache.Set(cacheKey(e.NoteId, e.Model), clone(e), cache.DefaultExpiration)
	return nil
}

func (r *CachedNoteEmbeddingRepository) FindOne(ctx context.Context, noteId uuid.UUID, model string) (*entity.NoteEmbedding, error) {
	if x, found := r.cache.Get(cacheKey(noteId, model)); found {
		return clone(x.(*entity.NoteEmbedding)), nil
	}

	e, err := r.next.FindOne(ctx, noteId, model)
	if err != nil || e == nil {
		return e, err
	}
	r.cache.Set(cacheKey(noteId, model), clone(e), cache.DefaultExpiration)
	return e, nil
}

func (r *CachedNoteEmbeddingRepository) FindAllByModel(ctx context.Context, model string) ([]*entity.NoteEmbedding, error) {
	return r.next.FindAllByModel(ctx, model)
}

func (r *CachedNoteEmbeddingRepository) CountByModel(ctx context.Context) (map[string]int64, error) {
	return r.next.CountByModel(ctx)
}

func (r *CachedNoteEmbeddingRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	prefix := noteId.String() + "|"
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
	return r.next.DeleteByNoteId(ctx, noteId)
}

func clone(e *entity.NoteEmbedding) *entity.NoteEmbedding {
	c := *e
	c.Vector = append([]float32(nil), e.Vector...)
	return &c
}
