package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"hrdocflow/internal/config"
	"hrdocflow/internal/delivery/http/handler"
)

type Router struct {
	app                *fiber.App
	config             *config.Config
	healthHandler      *handler.HealthHandler
	documentHandler    *handler.DocumentHandler
	templateHandler    *handler.TemplateHandler
	activityHandler    *handler.ActivityHandler
	directoryHandler   *handler.DirectoryHandler
	recruitmentHandler *handler.RecruitmentHandler
}

func NewRouter(
	cfg *config.Config,
	healthHandler *handler.HealthHandler,
	documentHandler *handler.DocumentHandler,
	templateHandler *handler.TemplateHandler,
	activityHandler *handler.ActivityHandler,
	directoryHandler *handler.DirectoryHandler,
	recruitmentHandler *handler.RecruitmentHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:                app,
		config:             cfg,
		healthHandler:      healthHandler,
		documentHandler:    documentHandler,
		templateHandler:    templateHandler,
		activityHandler:    activityHandler,
		directoryHandler:   directoryHandler,
		recruitmentHandler: recruitmentHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Actor-Id,X-Actor-Position-Id",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// API v1 routes
	api := r.app.Group("/api/v1")
	{
		// Document routes
		documents := api.Group("/documents")
		{
			documents.Get("", r.documentHandler.List)
			documents.Post("", r.documentHandler.Create)
			documents.Get("/:id", r.documentHandler.Get)
			documents.Put("/:id", r.documentHandler.SaveDraft)
			documents.Delete("/:id", r.documentHandler.Delete)
			documents.Post("/:id/send-for-review", r.documentHandler.SendForReview)
			documents.Post("/:id/approve", r.documentHandler.Approve)
			documents.Post("/:id/reject", r.documentHandler.Reject)
			documents.Post("/:id/signed-copy", r.documentHandler.AttachSignedCopy)
			documents.Post("/:id/final-approve", r.documentHandler.FinalApprove)
			documents.Post("/:id/restore-content", r.documentHandler.RestoreContent)
			documents.Get("/:id/render", r.documentHandler.Render)

			documents.Get("/:id/activities", r.activityHandler.List)
			documents.Get("/:id/activities/stream", r.activityHandler.Stream)
			documents.Post("/:id/activities/notes", r.activityHandler.AddNote)
		}

		// Template routes
		templates := api.Group("/templates")
		{
			templates.Get("", r.templateHandler.List)
			templates.Post("", r.templateHandler.Create)
			templates.Get("/:id", r.templateHandler.Get)
			templates.Put("/:id", r.templateHandler.Update)
			templates.Delete("/:id", r.templateHandler.Delete)
			templates.Get("/:id/preview", r.templateHandler.Preview)
		}

		// Placeholder dictionary for the template editor
		api.Get("/placeholders", r.templateHandler.Placeholders)

		// Directory routes
		directory := api.Group("/directory")
		{
			directory.Get("/employees", r.directoryHandler.ListEmployees)
			directory.Get("/employees/:id", r.directoryHandler.GetEmployee)
			directory.Get("/departments", r.directoryHandler.ListDepartments)
			directory.Get("/positions", r.directoryHandler.ListPositions)
		}

		// Recruitment routes
		vacancies := api.Group("/vacancies")
		{
			vacancies.Get("", r.recruitmentHandler.ListVacancies)
			vacancies.Post("", r.recruitmentHandler.CreateVacancy)
			vacancies.Patch("/:id/status", r.recruitmentHandler.SetVacancyStatus)
			vacancies.Get("/:id/candidates", r.recruitmentHandler.ListCandidates)
		}
		candidates := api.Group("/candidates")
		{
			candidates.Post("", r.recruitmentHandler.CreateCandidate)
			candidates.Post("/:id/stage", r.recruitmentHandler.MoveStage)
			candidates.Post("/:id/scorecards", r.recruitmentHandler.SubmitScorecard)

			// The candidate timeline shares the activity log with documents.
			candidates.Get("/:id/activities", r.activityHandler.List)
			candidates.Get("/:id/activities/stream", r.activityHandler.Stream)
			candidates.Post("/:id/activities/notes", r.activityHandler.AddNote)
		}
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
