package search

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/pkg/embedding"
	"clinical-notes-be/pkg/events"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
)

// keywordProvider sets dimension i to 1.0 when keyword i occurs in the text.
type keywordProvider struct {
	model    string
	keywords []string
	calls    atomic.Int32
	err      error
	onEmbed  func()
}

func (p *keywordProvider) Embed(ctx context.Context, text string) (*embedding.Result, error) {
	p.calls.Add(1)
	if p.onEmbed != nil {
		p.onEmbed()
	}
	if p.err != nil {
		return nil, p.err
	}
	values := make([]float32, len(p.keywords))
	for i, kw := range p.keywords {
		if strings.Contains(text, kw) {
			values[i] = 1
		}
	}
	return &embedding.Result{Values: values, Model: p.model, Dimensions: len(values)}, nil
}

func (p *keywordProvider) Dimensions() int   { return len(p.keywords) }
func (p *keywordProvider) ModelName() string { return p.model }

type fixedSource struct {
	mu       sync.Mutex
	provider embedding.EmbeddingProvider
}

func (s *fixedSource) Current(ctx context.Context) (embedding.EmbeddingProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.provider, nil
}

func (s *fixedSource) set(p embedding.EmbeddingProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*entity.NoteEmbedding
	corrupt map[string]bool
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]*entity.NoteEmbedding{},
		corrupt: map[string]bool{},
	}
}

func storeKey(noteId uuid.UUID, model string) string {
	return noteId.String() + "|" + model
}

func (s *fakeStore) Upsert(ctx context.Context, e *entity.NoteEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	c := *e
	s.records[storeKey(e.NoteId, e.Model)] = &c
	delete(s.corrupt, storeKey(e.NoteId, e.Model))
	return nil
}

func (s *fakeStore) FindOne(ctx context.Context, noteId uuid.UUID, model string) (*entity.NoteEmbedding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(noteId, model)
	if s.corrupt[key] {
		return nil, fmt.Errorf("%w: note %s", vector.ErrCorruptData, noteId)
	}
	return s.records[key], nil
}

func (s *fakeStore) FindAllByModel(ctx context.Context, model string) ([]*entity.NoteEmbedding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.NoteEmbedding
	var bad []string
	for key, e := range s.records {
		if e.Model != model {
			continue
		}
		if s.corrupt[key] {
			bad = append(bad, e.NoteId.String())
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i].NoteId[:], out[j].NoteId[:]) < 0 })
	if len(bad) > 0 {
		return out, fmt.Errorf("%w: %s", vector.ErrCorruptData, strings.Join(bad, ", "))
	}
	return out, nil
}

func (s *fakeStore) CountByModel(ctx context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range s.records {
		counts[e.Model]++
	}
	return counts, nil
}

func (s *fakeStore) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.records {
		if e.NoteId == noteId {
			delete(s.records, key)
		}
	}
	return nil
}

func (s *fakeStore) get(noteId uuid.UUID, model string) *entity.NoteEmbedding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[storeKey(noteId, model)]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func narrative(id string, text string) *entity.Note {
	return &entity.Note{Id: uuid.MustParse(id), Kind: entity.NoteKindNarrative, Content: text}
}

// waiting counts callers attached to in-flight computations.
func waiting(o *Orchestrator) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, f := range o.flights {
		n += len(f.waiters)
	}
	return n
}

// flightKey returns the singleflight key of the only in-flight computation.
func flightKey(o *Orchestrator) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range o.flights {
		return f.key
	}
	return ""
}
