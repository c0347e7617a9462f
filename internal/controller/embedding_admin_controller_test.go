package controller

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/service"
	"clinical-notes-be/pkg/admin/aiconfig"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettingsService struct {
	values map[string]string
}

func (s *stubSettingsService) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubSettingsService) Set(ctx context.Context, key, value string) (*dto.AiConfigurationResponse, error) {
	if key != "embedding_provider" {
		return nil, fmt.Errorf("%w '%s'", aiconfig.ErrUnknownKey, key)
	}
	if value != "local" && value != "remote" {
		return nil, fmt.Errorf("%w '%s'", aiconfig.ErrInvalidValue, value)
	}
	s.values[key] = value
	return &dto.AiConfigurationResponse{Key: key, Value: value}, nil
}

func (s *stubSettingsService) List(ctx context.Context) ([]*dto.AiConfigurationResponse, error) {
	return nil, nil
}

type stubReindexService struct{}

func (stubReindexService) Reindex(ctx context.Context, opts service.ReindexOptions) (*dto.ReindexReport, error) {
	return &dto.ReindexReport{}, nil
}

func (stubReindexService) Stats(ctx context.Context) (*dto.EmbeddingStatsResponse, error) {
	return &dto.EmbeddingStatsResponse{ActiveModel: "hashed-bow-384", Notes: 2, PerModel: map[string]int64{"hashed-bow-384": 2}}, nil
}

func TestEmbeddingAdminController_UpdateAiConfiguration(t *testing.T) {
	settings := &stubSettingsService{values: map[string]string{}}
	app := newTestApp(func(app *fiber.App) {
		NewEmbeddingAdminController(settings, stubReindexService{}).RegisterRoutes(app.Group("/api"), noAuth)
	})

	put := func(key, body string) int {
		req := httptest.NewRequest("PUT", "/api/admin/ai/configurations/"+key, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, put("embedding_provider", `{"value":"remote"}`))
	assert.Equal(t, "remote", settings.values["embedding_provider"])

	assert.Equal(t, fiber.StatusBadRequest, put("embedding_provider", `{"value":"gemini"}`))
	assert.Equal(t, fiber.StatusBadRequest, put("embedding_provider", `{}`))
	assert.Equal(t, fiber.StatusNotFound, put("temperature", `{"value":"1"}`))
}

func TestEmbeddingAdminController_Stats(t *testing.T) {
	app := newTestApp(func(app *fiber.App) {
		NewEmbeddingAdminController(&stubSettingsService{}, stubReindexService{}).RegisterRoutes(app.Group("/api"), noAuth)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/embeddings/stats", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp.Body)["data"].(map[string]interface{})
	assert.Equal(t, "hashed-bow-384", data["active_model"])
}
