package service

import (
	"context"
	"errors"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/pkg/logger"
	"clinical-notes-be/internal/repository/specification"
	"clinical-notes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ISimilarCaseService interface {
	FindSimilar(ctx context.Context, req *dto.SimilarCasesRequest) (*dto.SimilarCasesResponse, error)
}

type similarCaseService struct {
	uowFactory  unitofwork.RepositoryFactory
	finder      SimilarNoteFinder
	log         logger.ILogger
	defaultTopK int
	maxTopK     int
}

func NewSimilarCaseService(
	uowFactory unitofwork.RepositoryFactory,
	finder SimilarNoteFinder,
	log logger.ILogger,
	defaultTopK int,
	maxTopK int,
) ISimilarCaseService {
	return &similarCaseService{
		uowFactory:  uowFactory,
		finder:      finder,
		log:         log,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// FindSimilar ranks the stored cases closest to the requested note. Retrieval
// failures degrade to an empty result flagged as degraded; only a missing note
// or a cancelled request is returned as an error.
func (s *similarCaseService) FindSimilar(ctx context.Context, req *dto.SimilarCasesRequest) (*dto.SimilarCasesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.NoteId})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}

	res := &dto.SimilarCasesResponse{
		NoteId:  note.Id,
		Results: make([]dto.SimilarCaseItem, 0),
	}

	ranked, err := s.finder.FindSimilar(ctx, note, s.topK(req.K))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.log.Warn("SIMILAR", "Similar case retrieval degraded", map[string]interface{}{
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
		res.Degraded = true
		return res, nil
	}
	if len(ranked) == 0 {
		return res, nil
	}

	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.NoteId
	}
	notes, err := uow.NoteRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Note, len(notes))
	for _, n := range notes {
		byId[n.Id] = n
	}

	for _, r := range ranked {
		n, ok := byId[r.NoteId]
		if !ok {
			// Embedding outlived its note.
			continue
		}
		res.Results = append(res.Results, dto.SimilarCaseItem{
			NoteId:    r.NoteId,
			Title:     n.Title,
			PatientId: n.PatientId,
			Score:     r.Score,
		})
	}

	return res, nil
}

func (s *similarCaseService) topK(k int) int {
	if k <= 0 {
		k = s.defaultTopK
	}
	if s.maxTopK > 0 && k > s.maxTopK {
		k = s.maxTopK
	}
	return k
}
