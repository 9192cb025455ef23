package usecase

import (
	"context"

	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
)

type ActivityUsecase interface {
	// List returns a subject's log in createdAt ascending order; descending
	// reverses the canonical order locally.
	List(ctx context.Context, subjectID string, descending bool) ([]*entity.Activity, error)
	AddNote(ctx context.Context, actor Actor, subjectID, content string) (*entity.Activity, error)
	// Watch streams the subject's log to onChange until ctx is cancelled.
	Watch(ctx context.Context, subjectID string, onChange func(*entity.Activity)) error
}

type activityUsecase struct {
	activities repository.ActivityRepository
	logger     *zap.Logger
}

func NewActivityUsecase(activities repository.ActivityRepository, logger *zap.Logger) ActivityUsecase {
	return &activityUsecase{
		activities: activities,
		logger:     logger,
	}
}

func (u *activityUsecase) List(ctx context.Context, subjectID string, descending bool) ([]*entity.Activity, error) {
	acts, err := u.activities.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if descending {
		for i, j := 0, len(acts)-1; i < j; i, j = i+1, j-1 {
			acts[i], acts[j] = acts[j], acts[i]
		}
	}
	return acts, nil
}

func (u *activityUsecase) AddNote(ctx context.Context, actor Actor, subjectID, content string) (*entity.Activity, error) {
	act := &entity.Activity{
		SubjectID: subjectID,
		Type:      entity.ActivityNote,
		ActorID:   actor.ID,
		Content:   content,
	}
	id, err := u.activities.Append(ctx, act)
	if err != nil {
		return nil, err
	}
	act.ID = id
	return act, nil
}

func (u *activityUsecase) Watch(ctx context.Context, subjectID string, onChange func(*entity.Activity)) error {
	u.logger.Debug("Activity watch started", zap.String("subject_id", subjectID))
	return u.activities.Watch(ctx, subjectID, onChange)
}
