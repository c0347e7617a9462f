package service

import (
	"context"
	"sync"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/internal/repository/specification"
	"clinical-notes-be/internal/repository/unitofwork"
	"clinical-notes-be/pkg/rag/search"

	"golang.org/x/sync/errgroup"
)

const maxReportedFailures = 50

type ReindexOptions struct {
	BatchSize   int
	Concurrency int
	// Kind limits the run to one note kind when set.
	Kind entity.NoteKind
}

type IReindexService interface {
	Reindex(ctx context.Context, opts ReindexOptions) (*dto.ReindexReport, error)
	Stats(ctx context.Context) (*dto.EmbeddingStatsResponse, error)
}

type reindexService struct {
	uowFactory unitofwork.RepositoryFactory
	providers  search.ProviderSource
	embedder   NoteEmbedder
	store      contract.NoteEmbeddingRepository
	log        logger.ILogger
}

func NewReindexService(
	uowFactory unitofwork.RepositoryFactory,
	providers search.ProviderSource,
	embedder NoteEmbedder,
	store contract.NoteEmbeddingRepository,
	log logger.ILogger,
) IReindexService {
	return &reindexService{
		uowFactory: uowFactory,
		providers:  providers,
		embedder:   embedder,
		store:      store,
		log:        log,
	}
}

// Reindex walks every live note in a stable order and brings its embedding
// for the active model up to date. Per-note failures are counted, not fatal.
func (s *reindexService) Reindex(ctx context.Context, opts ReindexOptions) (*dto.ReindexReport, error) {
	if opts.BatchSize < 1 {
		opts.BatchSize = 100
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	provider, err := s.providers.Current(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.ReindexReport{
		Model:    provider.ModelName(),
		PerModel: make(map[string]int),
		Failures: make(map[string]string),
	}
	var mu sync.Mutex

	for offset := 0; ; {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		uow := s.uowFactory.NewUnitOfWork(ctx)
		specs := []specification.Specification{
			specification.StableNoteOrder{},
			specification.Pagination{Limit: opts.BatchSize, Offset: offset},
		}
		if opts.Kind != "" {
			specs = append(specs, specification.ByKind{Kind: string(opts.Kind)})
		}
		notes, err := uow.NoteRepository().FindAll(ctx, specs...)
		if err != nil {
			return report, err
		}
		if len(notes) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, note := range notes {
			g.Go(func() error {
				res, err := s.embedder.EmbedNote(gctx, note)

				mu.Lock()
				defer mu.Unlock()
				report.Scanned++
				switch {
				case err != nil:
					report.Failed++
					if len(report.Failures) < maxReportedFailures {
						report.Failures[note.Id.String()] = err.Error()
					}
				case res.Refreshed:
					report.Refreshed++
				default:
					report.Current++
				}
				if err == nil {
					s.countModel(report, res.Record.Model)
				}
				return nil
			})
		}
		_ = g.Wait()

		s.log.Info("REINDEX", "Batch done", map[string]interface{}{
			"offset":    offset,
			"batch":     len(notes),
			"refreshed": report.Refreshed,
			"failed":    report.Failed,
		})

		offset += len(notes)
		if len(notes) < opts.BatchSize {
			break
		}
	}

	return report, ctx.Err()
}

// countModel must be called with the report lock held.
func (s *reindexService) countModel(report *dto.ReindexReport, model string) {
	report.PerModel[model]++
	if model != report.Model {
		s.log.Warn("REINDEX", "Embedding provider switched during run", map[string]interface{}{
			"from": report.Model,
			"to":   model,
		})
		report.Model = model
	}
}

func (s *reindexService) Stats(ctx context.Context) (*dto.EmbeddingStatsResponse, error) {
	provider, err := s.providers.Current(ctx)
	if err != nil {
		return nil, err
	}

	notes, err := s.uowFactory.NewUnitOfWork(ctx).NoteRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	perModel, err := s.store.CountByModel(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.EmbeddingStatsResponse{
		ActiveModel: provider.ModelName(),
		Notes:       notes,
		PerModel:    perModel,
	}, nil
}
