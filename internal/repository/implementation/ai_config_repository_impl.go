package implementation

import (
	"context"
	"errors"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/model"
	"clinical-notes-be/internal/repository/contract"
	"clinical-notes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aiConfigRepository struct {
	db *gorm.DB
}

// NewAiConfigRepository creates a new AI config repository
func NewAiConfigRepository(db *gorm.DB) contract.IAiConfigRepository {
	return &aiConfigRepository{db: db}
}

// applySpecifications applies all specifications to the query
func (r *aiConfigRepository) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *aiConfigRepository) FindAllConfigurations(ctx context.Context, specs ...specification.Specification) ([]*entity.AiConfiguration, error) {
	var models []model.AiConfiguration
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.AiConfiguration, len(models))
	for i := range models {
		entities[i] = configModelToEntity(&models[i])
	}

	return entities, nil
}

func (r *aiConfigRepository) FindConfigurationByKey(ctx context.Context, key string) (*entity.AiConfiguration, error) {
	var m model.AiConfiguration
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return configModelToEntity(&m), nil
}

func (r *aiConfigRepository) UpdateConfiguration(ctx context.Context, config *entity.AiConfiguration) error {
	m := configEntityToModel(config)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *aiConfigRepository) CreateConfiguration(ctx context.Context, config *entity.AiConfiguration) error {
	if config.Id == uuid.Nil {
		config.Id = uuid.New()
	}
	m := configEntityToModel(config)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	config.CreatedAt = m.CreatedAt
	config.UpdatedAt = m.UpdatedAt
	return nil
}

func configModelToEntity(m *model.AiConfiguration) *entity.AiConfiguration {
	return &entity.AiConfiguration{
		Id:          m.Id,
		Key:         m.Key,
		Value:       m.Value,
		ValueType:   m.ValueType,
		Description: m.Description,
		Category:    m.Category,
		IsSecret:    m.IsSecret,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func configEntityToModel(e *entity.AiConfiguration) *model.AiConfiguration {
	return &model.AiConfiguration{
		Id:          e.Id,
		Key:         e.Key,
		Value:       e.Value,
		ValueType:   e.ValueType,
		Description: e.Description,
		Category:    e.Category,
		IsSecret:    e.IsSecret,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
