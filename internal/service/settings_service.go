package service

import (
	"context"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/repository/unitofwork"
	"clinical-notes-be/pkg/admin/aiconfig"
)

// ISettingsService exposes runtime settings. Get satisfies the embedding
// selector's settings source, so a Set takes effect on the next call.
type ISettingsService interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) (*dto.AiConfigurationResponse, error)
	List(ctx context.Context) ([]*dto.AiConfigurationResponse, error)
}

type settingsService struct {
	uowFactory unitofwork.RepositoryFactory
	manager    *aiconfig.Manager
}

func NewSettingsService(uowFactory unitofwork.RepositoryFactory, manager *aiconfig.Manager) ISettingsService {
	return &settingsService{
		uowFactory: uowFactory,
		manager:    manager,
	}
}

func (s *settingsService) Get(ctx context.Context, key string) (string, bool, error) {
	return s.manager.GetValue(ctx, s.uowFactory.NewUnitOfWork(ctx), key)
}

func (s *settingsService) Set(ctx context.Context, key, value string) (*dto.AiConfigurationResponse, error) {
	return s.manager.SetValue(ctx, s.uowFactory.NewUnitOfWork(ctx), key, dto.UpdateAiConfigurationRequest{Value: value})
}

func (s *settingsService) List(ctx context.Context) ([]*dto.AiConfigurationResponse, error) {
	return s.manager.GetAllConfigurations(ctx, s.uowFactory.NewUnitOfWork(ctx))
}
