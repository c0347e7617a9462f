package service

import (
	"context"
	"testing"
	"time"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/internal/repository/implementation"
	"clinical-notes-be/internal/repository/unitofwork"
	"clinical-notes-be/pkg/admin/aiconfig"
	"clinical-notes-be/pkg/database"
	"clinical-notes-be/pkg/embedding/factory"
	"clinical-notes-be/pkg/rag/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	uowFactory   unitofwork.RepositoryFactory
	store        contract.NoteEmbeddingRepository
	settings     ISettingsService
	selector     *factory.Selector
	orchestrator *search.Orchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewInMemorySQLite()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	uowFactory := unitofwork.NewRepositoryFactory(db)
	store := implementation.NewNoteEmbeddingRepository(db)
	settings := NewSettingsService(uowFactory, aiconfig.NewManager())

	selector, err := factory.NewSelector(factory.Config{
		DefaultProvider: factory.ProviderLocal,
		LocalBackend:    factory.LocalBackendHash,
	}, settings)
	require.NoError(t, err)

	return &testEnv{
		uowFactory:   uowFactory,
		store:        store,
		settings:     settings,
		selector:     selector,
		orchestrator: search.NewOrchestrator(selector, store, logger.NewNopLogger()),
	}
}

func (e *testEnv) createNote(t *testing.T, title, content string, createdAt time.Time) *entity.Note {
	t.Helper()
	note := &entity.Note{
		Id:        uuid.New(),
		PatientId: uuid.New(),
		Kind:      entity.NoteKindNarrative,
		Title:     title,
		Content:   content,
		CreatedAt: createdAt,
	}
	require.NoError(t, e.uowFactory.NewUnitOfWork(context.Background()).NoteRepository().Create(context.Background(), note))
	return note
}

type stubFinder struct {
	results []search.SimilarNote
	err     error
	gotK    int
}

func (f *stubFinder) FindSimilar(ctx context.Context, note *entity.Note, k int) ([]search.SimilarNote, error) {
	f.gotK = k
	return f.results, f.err
}
