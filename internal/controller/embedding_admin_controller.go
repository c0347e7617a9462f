package controller

import (
	"errors"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/pkg/serverutils"
	"clinical-notes-be/internal/service"
	"clinical-notes-be/pkg/admin/aiconfig"

	"github.com/gofiber/fiber/v2"
)

type IEmbeddingAdminController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	GetAllAiConfigurations(ctx *fiber.Ctx) error
	UpdateAiConfiguration(ctx *fiber.Ctx) error
	GetEmbeddingStats(ctx *fiber.Ctx) error
}

type embeddingAdminController struct {
	settingsService service.ISettingsService
	reindexService  service.IReindexService
}

func NewEmbeddingAdminController(settingsService service.ISettingsService, reindexService service.IReindexService) IEmbeddingAdminController {
	return &embeddingAdminController{
		settingsService: settingsService,
		reindexService:  reindexService,
	}
}

func (c *embeddingAdminController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/admin", auth)

	h.Get("/ai/configurations", c.GetAllAiConfigurations)
	h.Put("/ai/configurations/:key", c.UpdateAiConfiguration)
	h.Get("/embeddings/stats", c.GetEmbeddingStats)
}

// GetAllAiConfigurations returns all AI configuration settings
func (c *embeddingAdminController) GetAllAiConfigurations(ctx *fiber.Ctx) error {
	configs, err := c.settingsService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("AI configurations", configs))
}

// UpdateAiConfiguration updates an AI configuration value. The new value is
// picked up by the next embedding call.
func (c *embeddingAdminController) UpdateAiConfiguration(ctx *fiber.Ctx) error {
	key := ctx.Params("key")
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Configuration key is required")
	}

	var req dto.UpdateAiConfigurationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	config, err := c.settingsService.Set(ctx.UserContext(), key, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, aiconfig.ErrUnknownKey):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, aiconfig.ErrInvalidValue):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Configuration updated", config))
}

func (c *embeddingAdminController) GetEmbeddingStats(ctx *fiber.Ctx) error {
	stats, err := c.reindexService.Stats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Embedding stats", stats))
}
