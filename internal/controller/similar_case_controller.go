package controller

import (
	"errors"

	"clinical-notes-be/internal/dto"
	"clinical-notes-be/internal/pkg/serverutils"
	"clinical-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISimilarCaseController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	FindSimilar(ctx *fiber.Ctx) error
}

type similarCaseController struct {
	similarCaseService service.ISimilarCaseService
}

func NewSimilarCaseController(similarCaseService service.ISimilarCaseService) ISimilarCaseController {
	return &similarCaseController{
		similarCaseService: similarCaseService,
	}
}

func (c *similarCaseController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/notes", auth)
	h.Get(":id/similar", c.FindSimilar)
}

// FindSimilar handles GET /api/notes/:id/similar?k=5
func (c *similarCaseController) FindSimilar(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid note id")
	}

	var req dto.SimilarCasesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	req.NoteId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.similarCaseService.FindSimilar(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Similar cases", res))
}
