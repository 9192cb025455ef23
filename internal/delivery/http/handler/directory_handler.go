package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
)

// DirectoryHandler serves read-only HR master data lookups. It talks to the
// repository directly; there is no business logic to put a usecase around.
type DirectoryHandler struct {
	directory repository.DirectoryRepository
	logger    *zap.Logger
}

func NewDirectoryHandler(directory repository.DirectoryRepository, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		logger:    logger,
	}
}

func (h *DirectoryHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.directory.ListEmployees(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list employees", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(employees, len(employees), "Employees retrieved successfully"))
}

func (h *DirectoryHandler) GetEmployee(c *fiber.Ctx) error {
	emp, err := h.directory.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(emp, "Employee retrieved successfully"))
}

func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.directory.ListDepartments(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list departments", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(departments, len(departments), "Departments retrieved successfully"))
}

func (h *DirectoryHandler) ListPositions(c *fiber.Ctx) error {
	positions, err := h.directory.ListPositions(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list positions", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(positions, len(positions), "Positions retrieved successfully"))
}
