package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
)

type activityRepository struct {
	col    *firestore.CollectionRef
	logger *zap.Logger
}

func NewActivityRepository(cfg *config.Config, client *firestore.Client, logger *zap.Logger) repository.ActivityRepository {
	return &activityRepository{
		col:    client.Collection(cfg.Firestore.ActivitiesCollection),
		logger: logger,
	}
}

func (r *activityRepository) Append(ctx context.Context, act *entity.Activity) (string, error) {
	ref := r.col.NewDoc()
	if act.CreatedAt.IsZero() {
		act.CreatedAt = time.Now().UTC()
	}
	if _, err := ref.Create(ctx, act); err != nil {
		return "", fmt.Errorf("failed to append activity: %w", err)
	}
	return ref.ID, nil
}

// ListBySubject returns the log in canonical order, createdAt ascending.
// Feed-style consumers reverse on their side.
func (r *activityRepository) ListBySubject(ctx context.Context, subjectID string) ([]*entity.Activity, error) {
	iter := r.col.
		Where("subjectId", "==", subjectID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var acts []*entity.Activity
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list activities for %s: %w", subjectID, err)
		}
		var act entity.Activity
		if err := snap.DataTo(&act); err != nil {
			return nil, fmt.Errorf("failed to decode activity %s: %w", snap.Ref.ID, err)
		}
		act.ID = snap.Ref.ID
		acts = append(acts, &act)
	}
	return acts, nil
}

// Watch delivers the current log and then every newly added record through
// onChange. It blocks until ctx is cancelled; cancellation is not an error.
func (r *activityRepository) Watch(ctx context.Context, subjectID string, onChange func(*entity.Activity)) error {
	snaps := r.col.
		Where("subjectId", "==", subjectID).
		OrderBy("createdAt", firestore.Asc).
		Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("activity watch for %s failed: %w", subjectID, err)
		}
		for _, change := range snap.Changes {
			if change.Kind != firestore.DocumentAdded {
				continue
			}
			var act entity.Activity
			if err := change.Doc.DataTo(&act); err != nil {
				r.logger.Warn("Skipping undecodable activity",
					zap.String("activity_id", change.Doc.Ref.ID),
					zap.Error(err),
				)
				continue
			}
			act.ID = change.Doc.Ref.ID
			onChange(&act)
		}
	}
}
