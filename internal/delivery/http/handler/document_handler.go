package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/usecase"
)

type DocumentHandler struct {
	usecase usecase.DocumentUsecase
	logger  *zap.Logger
}

func NewDocumentHandler(usecase usecase.DocumentUsecase, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	filter := entity.DocumentFilter{
		Status:     entity.DocumentStatus(c.Query("status")),
		EmployeeID: c.Query("employee_id"),
		TemplateID: c.Query("template_id"),
		Limit:      limit,
	}

	docs, err := h.usecase.List(ctx, filter)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(docs, len(docs), "Documents retrieved successfully"))
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Document retrieved successfully"))
}

func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	doc, err := h.usecase.Create(c.UserContext(), actorFromHeaders(c), &req)
	if err != nil {
		h.logger.Error("Failed to create document", zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(doc, "Document created successfully"),
	)
}

func (h *DocumentHandler) SaveDraft(c *fiber.Ctx) error {
	var req usecase.SaveDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	doc, err := h.usecase.SaveDraft(c.UserContext(), actorFromHeaders(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Draft saved successfully"))
}

func (h *DocumentHandler) SendForReview(c *fiber.Ctx) error {
	doc, err := h.usecase.SendForReview(c.UserContext(), actorFromHeaders(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Document sent for review"))
}

func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	doc, err := h.usecase.Approve(c.UserContext(), actorFromHeaders(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Approval recorded"))
}

func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	doc, err := h.usecase.Reject(c.UserContext(), actorFromHeaders(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Rejection recorded, document returned to draft"))
}

// AttachSignedCopy accepts the scanned signed artifact as a multipart file
// upload and stores it in object storage.
func (h *DocumentHandler) AttachSignedCopy(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "A file upload named 'file' is required"),
		)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}

	doc, err := h.usecase.AttachSignedCopy(c.UserContext(), actorFromHeaders(c), c.Params("id"), fileHeader.Filename, data)
	if err != nil {
		h.logger.Error("Failed to attach signed copy",
			zap.String("document_id", c.Params("id")),
			zap.Error(err),
		)
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Signed copy attached"))
}

func (h *DocumentHandler) FinalApprove(c *fiber.Ctx) error {
	doc, err := h.usecase.FinalApprove(c.UserContext(), actorFromHeaders(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Document approved"))
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.usecase.Delete(c.UserContext(), actorFromHeaders(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Document deleted"))
}

func (h *DocumentHandler) RestoreContent(c *fiber.Ctx) error {
	doc, err := h.usecase.RestoreContent(c.UserContext(), actorFromHeaders(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(doc, "Content restored from template"))
}

func (h *DocumentHandler) Render(c *fiber.Ctx) error {
	rendered, err := h.usecase.Render(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"content": rendered}, "Document rendered"))
}
