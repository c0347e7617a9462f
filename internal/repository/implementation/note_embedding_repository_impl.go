package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/mapper"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/pkg/vector"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NoteEmbeddingMapper
}

func NewNoteEmbeddingRepository(db *gorm.DB) contract.NoteEmbeddingRepository {
	return &NoteEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteEmbeddingMapper(),
	}
}

func (r *NoteEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.NoteEmbedding) error {
	m := r.mapper.ToModel(embedding)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "note_id"}, {Name: "model"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"vector", "legacy_vector", "dimensions", "content_hash", "computed_at",
		}),
	}).Create(m).Error
}

func (r *NoteEmbeddingRepositoryImpl) FindOne(ctx context.Context, noteId uuid.UUID, modelName string) (*entity.NoteEmbedding, error) {
	var m model.NoteEmbedding
	err := r.db.WithContext(ctx).
		Where("note_id = ? AND model = ?", noteId, modelName).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m)
}

func (r *NoteEmbeddingRepositoryImpl) FindAllByModel(ctx context.Context, modelName string) ([]*entity.NoteEmbedding, error) {
	var models []*model.NoteEmbedding
	err := r.db.WithContext(ctx).
		Where("model = ?", modelName).
		Order("note_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.NoteEmbedding, 0, len(models))
	var corrupt []string
	for _, m := range models {
		e, err := r.mapper.ToEntity(m)
		if err != nil {
			corrupt = append(corrupt, m.NoteId.String())
			continue
		}
		entities = append(entities, e)
	}

	if len(corrupt) > 0 {
		return entities, fmt.Errorf("%w: skipped %d rows for model %s: %s",
			vector.ErrCorruptData, len(corrupt), modelName, strings.Join(corrupt, ", "))
	}
	return entities, nil
}

func (r *NoteEmbeddingRepositoryImpl) CountByModel(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Model string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.NoteEmbedding{}).
		Select("model, COUNT(*) AS total").
		Group("model").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Model] = row.Total
	}
	return counts, nil
}

func (r *NoteEmbeddingRepositoryImpl) DeleteByNoteId(ctx context.Context, noteId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("note_id = ?", noteId).Delete(&model.NoteEmbedding{}).Error
}
