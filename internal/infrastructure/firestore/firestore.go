package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
)

// NewClient creates the Firestore client all repositories share and closes it
// when the application stops.
func NewClient(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if cfg.Firestore.ProjectID == "" {
		return nil, fmt.Errorf("firestore project_id must be configured")
	}

	client, err := firestore.NewClient(context.Background(), cfg.Firestore.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	logger.Info("Firestore client created",
		zap.String("project_id", cfg.Firestore.ProjectID),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

var Module = fx.Module("firestore",
	fx.Provide(NewClient),
)
