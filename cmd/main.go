package main

import (
	"go.uber.org/fx"

	"hrdocflow/internal/config"
	deliveryhttp "hrdocflow/internal/delivery/http"
	"hrdocflow/internal/infrastructure/database"
	"hrdocflow/internal/infrastructure/firestore"
	"hrdocflow/internal/infrastructure/logger"
	"hrdocflow/internal/infrastructure/redis"
	"hrdocflow/internal/infrastructure/repository"
	"hrdocflow/internal/infrastructure/storage"
	"hrdocflow/internal/outbox"
	"hrdocflow/internal/server"
	"hrdocflow/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		firestore.Module,
		storage.Module,
		repository.Module,

		// Business Logic
		usecase.Module,
		outbox.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
