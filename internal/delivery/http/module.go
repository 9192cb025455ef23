package http

import (
	"go.uber.org/fx"

	"hrdocflow/internal/delivery/http/handler"
	"hrdocflow/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewHealthHandler,
		handler.NewDocumentHandler,
		handler.NewTemplateHandler,
		handler.NewActivityHandler,
		handler.NewDirectoryHandler,
		handler.NewRecruitmentHandler,
		router.NewRouter,
	),
)
