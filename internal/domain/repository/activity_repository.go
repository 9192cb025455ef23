package repository

import (
	"context"

	"hrdocflow/internal/domain/entity"
)

// ActivityRepository is the append-only activity log. Stored order is
// CreatedAt ascending; consumers wanting feed order reverse locally.
type ActivityRepository interface {
	Append(ctx context.Context, act *entity.Activity) (string, error)
	ListBySubject(ctx context.Context, subjectID string) ([]*entity.Activity, error)
	// Watch streams activities for a subject to onChange as they are written,
	// starting with the current log, until ctx is cancelled.
	Watch(ctx context.Context, subjectID string, onChange func(*entity.Activity)) error
}
