package handler

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/usecase"
)

type ActivityHandler struct {
	usecase usecase.ActivityUsecase
	logger  *zap.Logger
}

func NewActivityHandler(usecase usecase.ActivityUsecase, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	descending := c.Query("order") == "desc"
	acts, err := h.usecase.List(c.UserContext(), c.Params("id"), descending)
	if err != nil {
		h.logger.Error("Failed to list activities", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(acts, len(acts), "Activities retrieved successfully"))
}

func (h *ActivityHandler) AddNote(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "A non-empty content field is required"),
		)
	}

	act, err := h.usecase.AddNote(c.UserContext(), actorFromHeaders(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(act, "Note added"),
	)
}

// Stream pushes the subject's activity log as NDJSON, one record per line,
// starting with the existing log and continuing live until the client
// disconnects. Backed by the store's snapshot listener.
func (h *ActivityHandler) Stream(c *fiber.Ctx) error {
	subjectID := c.Params("id")

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := h.usecase.Watch(ctx, subjectID, func(act *entity.Activity) {
			line, err := json.Marshal(act)
			if err != nil {
				return
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				cancel()
				return
			}
			// Flush per record; a failed flush means the client is gone.
			if err := w.Flush(); err != nil {
				cancel()
			}
		})
		if err != nil {
			h.logger.Error("Activity stream ended with error",
				zap.String("subject_id", subjectID),
				zap.Error(err),
			)
		}
	}))

	return nil
}
