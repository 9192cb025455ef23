package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/usecase"
)

// actorFromHeaders extracts the acting user. Authentication is out of scope;
// identity arrives pre-resolved from the gateway.
func actorFromHeaders(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{
		ID:         c.Get("X-Actor-Id"),
		PositionID: c.Get("X-Actor-Position-Id"),
	}
}

// respondError maps domain errors onto the response envelope. Validation
// failures come back 400, missing records 404, wrong-state operations 409,
// everything else is an internal error.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse("NOT_FOUND", err.Error()),
		)
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrReviewersRequired),
		errors.Is(err, entity.ErrSignedCopyRequired):
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("VALIDATION_ERROR", err.Error()),
		)
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrAlreadyApproved),
		errors.Is(err, entity.ErrNotDeletable):
		return c.Status(fiber.StatusConflict).JSON(
			entity.NewErrorResponse("CONFLICT", err.Error()),
		)
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", err.Error()),
		)
	}
}
