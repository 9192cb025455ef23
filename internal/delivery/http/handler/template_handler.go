package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/placeholder"
	"hrdocflow/internal/usecase"
)

type TemplateHandler struct {
	usecase usecase.TemplateUsecase
	logger  *zap.Logger
}

func NewTemplateHandler(usecase usecase.TemplateUsecase, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	activeOnly := c.Query("active") == "true"
	tpls, err := h.usecase.List(c.UserContext(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list templates", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(tpls, len(tpls), "Templates retrieved successfully"))
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	tpl, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(tpl, "Template retrieved successfully"))
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req usecase.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	tpl, err := h.usecase.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(tpl, "Template created successfully"),
	)
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	var req usecase.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	tpl, err := h.usecase.Update(c.UserContext(), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(tpl, "Template updated successfully"))
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	if err := h.usecase.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Template deleted"))
}

func (h *TemplateHandler) Preview(c *fiber.Ctx) error {
	rendered, err := h.usecase.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"content": rendered}, "Preview rendered"))
}

// Placeholders lists the field dictionary grouped for the editor's picker.
func (h *TemplateHandler) Placeholders(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(placeholder.FieldsByGroup(), "Placeholder dictionary"))
}
