package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
)

type CreateVacancyRequest struct {
	Title        string `json:"title"`
	DepartmentID string `json:"department_id"`
	PositionID   string `json:"position_id"`
	Openings     int    `json:"openings"`
}

type CreateCandidateRequest struct {
	VacancyID string `json:"vacancy_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ResumeURL string `json:"resume_url"`
}

type RecruitmentUsecase interface {
	CreateVacancy(ctx context.Context, req *CreateVacancyRequest) (*entity.Vacancy, error)
	ListVacancies(ctx context.Context) ([]*entity.Vacancy, error)
	SetVacancyStatus(ctx context.Context, id string, status entity.VacancyStatus) (*entity.Vacancy, error)
	CreateCandidate(ctx context.Context, actor Actor, req *CreateCandidateRequest) (*entity.Candidate, error)
	ListCandidates(ctx context.Context, vacancyID string) ([]*entity.Candidate, error)
	// MoveStage moves a candidate through the pipeline and logs a
	// STAGE_CHANGE activity. Backward moves are allowed.
	MoveStage(ctx context.Context, actor Actor, candidateID string, stage entity.CandidateStage) (*entity.Candidate, error)
	SubmitScorecard(ctx context.Context, actor Actor, candidateID string, card *entity.Scorecard) error
}

type recruitmentUsecase struct {
	vacancies  repository.VacancyRepository
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
	logger     *zap.Logger
}

func NewRecruitmentUsecase(
	vacancies repository.VacancyRepository,
	candidates repository.CandidateRepository,
	activities repository.ActivityRepository,
	logger *zap.Logger,
) RecruitmentUsecase {
	return &recruitmentUsecase{
		vacancies:  vacancies,
		candidates: candidates,
		activities: activities,
		logger:     logger,
	}
}

func (u *recruitmentUsecase) CreateVacancy(ctx context.Context, req *CreateVacancyRequest) (*entity.Vacancy, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: vacancy title is required", entity.ErrValidation)
	}
	openings := req.Openings
	if openings <= 0 {
		openings = 1
	}

	v := &entity.Vacancy{
		Title:        req.Title,
		DepartmentID: req.DepartmentID,
		PositionID:   req.PositionID,
		Status:       entity.VacancyOpen,
		Openings:     openings,
	}
	id, err := u.vacancies.Create(ctx, v)
	if err != nil {
		return nil, err
	}
	v.ID = id
	return v, nil
}

func (u *recruitmentUsecase) ListVacancies(ctx context.Context) ([]*entity.Vacancy, error) {
	return u.vacancies.List(ctx)
}

func (u *recruitmentUsecase) SetVacancyStatus(ctx context.Context, id string, status entity.VacancyStatus) (*entity.Vacancy, error) {
	switch status {
	case entity.VacancyOpen, entity.VacancyOnHold, entity.VacancyClosed:
	default:
		return nil, fmt.Errorf("%w: unknown vacancy status %q", entity.ErrValidation, status)
	}

	if err := u.vacancies.Update(ctx, id, map[string]interface{}{"status": string(status)}); err != nil {
		return nil, err
	}
	return u.vacancies.Get(ctx, id)
}

func (u *recruitmentUsecase) CreateCandidate(ctx context.Context, actor Actor, req *CreateCandidateRequest) (*entity.Candidate, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: candidate name is required", entity.ErrValidation)
	}
	if _, err := u.vacancies.Get(ctx, req.VacancyID); err != nil {
		return nil, err
	}

	c := &entity.Candidate{
		VacancyID: req.VacancyID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Stage:     entity.StageApplied,
		ResumeURL: req.ResumeURL,
	}
	id, err := u.candidates.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id

	u.appendActivity(ctx, &entity.Activity{
		SubjectID: id,
		Type:      entity.ActivitySystem,
		ActorID:   actor.ID,
		Content:   "Candidate added to pipeline",
	})
	return c, nil
}

func (u *recruitmentUsecase) ListCandidates(ctx context.Context, vacancyID string) ([]*entity.Candidate, error) {
	return u.candidates.ListByVacancy(ctx, vacancyID)
}

func (u *recruitmentUsecase) MoveStage(ctx context.Context, actor Actor, candidateID string, stage entity.CandidateStage) (*entity.Candidate, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown pipeline stage %q", entity.ErrValidation, stage)
	}

	c, err := u.candidates.Get(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if c.Stage == stage {
		return c, nil
	}

	if err := u.candidates.Update(ctx, candidateID, map[string]interface{}{
		"stage": string(stage),
	}); err != nil {
		return nil, err
	}

	u.appendActivity(ctx, &entity.Activity{
		SubjectID: candidateID,
		Type:      entity.ActivityStageChange,
		ActorID:   actor.ID,
		Content:   fmt.Sprintf("Stage changed from %s to %s", c.Stage, stage),
		Data: map[string]string{
			"from": string(c.Stage),
			"to":   string(stage),
		},
	})

	u.logger.Info("Candidate stage moved",
		zap.String("candidate_id", candidateID),
		zap.String("from", string(c.Stage)),
		zap.String("to", string(stage)),
	)

	c.Stage = stage
	return c, nil
}

func (u *recruitmentUsecase) SubmitScorecard(ctx context.Context, actor Actor, candidateID string, card *entity.Scorecard) error {
	switch card.Recommendation {
	case "strong_yes", "yes", "no", "strong_no":
	default:
		return fmt.Errorf("%w: unknown recommendation %q", entity.ErrValidation, card.Recommendation)
	}
	if _, err := u.candidates.Get(ctx, candidateID); err != nil {
		return err
	}

	card.InterviewerID = actor.ID
	u.appendActivity(ctx, &entity.Activity{
		SubjectID: candidateID,
		Type:      entity.ActivityScorecard,
		ActorID:   actor.ID,
		Content:   "Scorecard submitted",
		Data: map[string]string{
			"recommendation": card.Recommendation,
			"score":          strconv.Itoa(card.Score),
			"notes":          card.Notes,
		},
	})
	return nil
}

func (u *recruitmentUsecase) appendActivity(ctx context.Context, act *entity.Activity) {
	if _, err := u.activities.Append(ctx, act); err != nil {
		u.logger.Error("Failed to append activity",
			zap.String("subject_id", act.SubjectID),
			zap.String("type", string(act.Type)),
			zap.Error(err),
		)
	}
}
