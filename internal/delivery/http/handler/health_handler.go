package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Env       string    `json:"env"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Service:   h.config.App.Name,
		Env:       h.config.App.Env,
		Timestamp: time.Now(),
	}, "Service is healthy"))
}
