package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/mapper"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces the per-model hashes: note_embeddings:{model} -> {noteId: envelope}.
const KeyPrefix = "note_embeddings:"

type envelope struct {
	Vector      []byte    `json:"vector"`
	Dimensions  int       `json:"dimensions"`
	ContentHash string    `json:"content_hash"`
	ComputedAt  time.Time `json:"computed_at"`
}

type NoteEmbeddingRepository struct {
	rdb *goredis.Client
}

func NewNoteEmbeddingRepository(rdb *goredis.Client) contract.NoteEmbeddingRepository {
	return &NoteEmbeddingRepository{rdb: rdb}
}

func modelKey(model string) string {
	return KeyPrefix + model
}

func (r *NoteEmbeddingRepository) Upsert(ctx context.Context, e *entity.NoteEmbedding) error {
	payload, err := encodeEnvelope(e)
	if err != nil {
		return err
	}
	return r.rdb.HSet(ctx, modelKey(e.Model), e.NoteId.String(), payload).Err()
}

func (r *NoteEmbeddingRepository) FindOne(ctx context.Context, noteId uuid.UUID, model string) (*entity.NoteEmbedding, error) {
	raw, err := r.rdb.HGet(ctx, modelKey(model), noteId.String()).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeEnvelope(noteId, model, raw)
}

func (r *NoteEmbeddingRepository) FindAllByModel(ctx context.Context, model string) ([]*entity.NoteEmbedding, error) {
	fields, err := r.rdb.HGetAll(ctx, modelKey(model)).Result()
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.NoteEmbedding, 0, len(fields))
	var corrupt []string
	for field, raw := range fields {
		noteId, err := uuid.Parse(field)
		if err != nil {
			corrupt = append(corrupt, field)
			continue
		}
		e, err := decodeEnvelope(noteId, model, []byte(raw))
		if err != nil {
			corrupt = append(corrupt, field)
			continue
		}
		entities = append(entities, e)
	}

	sort.Slice(entities, func(i, j int) bool {
		return bytes.Compare(entities[i].NoteId[:], entities[j].NoteId[:]) < 0
	})

	if len(corrupt) > 0 {
		sort.Strings(corrupt)
		return entities, fmt.Errorf("%w: skipped %d entries for model %s: %s",
			vector.ErrCorruptData, len(corrupt), model, strings.Join(corrupt, ", "))
	}
	return entities, nil
}

func (r *NoteEmbeddingRepository) CountByModel(ctx context.Context) (map[string]int64, error) {
	keys, err := r.modelKeys(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(keys))
	for _, key := range keys {
		n, err := r.rdb.HLen(ctx, key).Result()
		if err != nil {
			return nil, err
		}
		if n > 0 {
			counts[strings.TrimPrefix(key, KeyPrefix)] = n
		}
	}
	return counts, nil
}

func (r *NoteEmbeddingRepository) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	keys, err := r.modelKeys(ctx)
	if err != nil {
		return err
	}

	pipe := r.rdb.Pipeline()
	for _, key := range keys {
		pipe.HDel(ctx, key, noteId.String())
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *NoteEmbeddingRepository) modelKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.rdb.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func encodeEnvelope(e *entity.NoteEmbedding) ([]byte, error) {
	return json.Marshal(envelope{
		Vector:      vector.Encode(e.Vector),
		Dimensions:  e.Dimensions,
		ContentHash: e.ContentHash,
		ComputedAt:  e.ComputedAt,
	})
}

func decodeEnvelope(noteId uuid.UUID, model string, raw []byte) (*entity.NoteEmbedding, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: note %s model %s: %v", vector.ErrCorruptData, noteId, model, err)
	}

	values, err := mapper.StoredVectorOf(env.Vector, nil).Decode(env.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("note %s model %s: %w", noteId, model, err)
	}

	return &entity.NoteEmbedding{
		NoteId:      noteId,
		Vector:      values,
		Model:       model,
		Dimensions:  env.Dimensions,
		ContentHash: env.ContentHash,
		ComputedAt:  env.ComputedAt,
	}, nil
}
