package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/usecase"
)

type RecruitmentHandler struct {
	usecase usecase.RecruitmentUsecase
	logger  *zap.Logger
}

func NewRecruitmentHandler(usecase usecase.RecruitmentUsecase, logger *zap.Logger) *RecruitmentHandler {
	return &RecruitmentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

func (h *RecruitmentHandler) ListVacancies(c *fiber.Ctx) error {
	vacancies, err := h.usecase.ListVacancies(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to list vacancies", zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(vacancies, len(vacancies), "Vacancies retrieved successfully"))
}

func (h *RecruitmentHandler) CreateVacancy(c *fiber.Ctx) error {
	var req usecase.CreateVacancyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	v, err := h.usecase.CreateVacancy(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(v, "Vacancy created successfully"),
	)
}

func (h *RecruitmentHandler) SetVacancyStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	v, err := h.usecase.SetVacancyStatus(c.UserContext(), c.Params("id"), entity.VacancyStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(v, "Vacancy status updated"))
}

func (h *RecruitmentHandler) ListCandidates(c *fiber.Ctx) error {
	candidates, err := h.usecase.ListCandidates(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewListResponse(candidates, len(candidates), "Candidates retrieved successfully"))
}

func (h *RecruitmentHandler) CreateCandidate(c *fiber.Ctx) error {
	var req usecase.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	cand, err := h.usecase.CreateCandidate(c.UserContext(), actorFromHeaders(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(cand, "Candidate created successfully"),
	)
}

func (h *RecruitmentHandler) MoveStage(c *fiber.Ctx) error {
	var req struct {
		Stage string `json:"stage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	cand, err := h.usecase.MoveStage(c.UserContext(), actorFromHeaders(c), c.Params("id"), entity.CandidateStage(req.Stage))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(cand, "Candidate stage updated"))
}

func (h *RecruitmentHandler) SubmitScorecard(c *fiber.Ctx) error {
	var card entity.Scorecard
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	if err := h.usecase.SubmitScorecard(c.UserContext(), actorFromHeaders(c), c.Params("id"), &card); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(
		entity.NewSuccessResponse(nil, "Scorecard submitted"),
	)
}
