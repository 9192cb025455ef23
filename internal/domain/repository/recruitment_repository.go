package repository

import (
	"context"

	"hrdocflow/internal/domain/entity"
)

type VacancyRepository interface {
	Get(ctx context.Context, id string) (*entity.Vacancy, error)
	Create(ctx context.Context, v *entity.Vacancy) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	List(ctx context.Context) ([]*entity.Vacancy, error)
}

type CandidateRepository interface {
	Get(ctx context.Context, id string) (*entity.Candidate, error)
	Create(ctx context.Context, c *entity.Candidate) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	ListByVacancy(ctx context.Context, vacancyID string) ([]*entity.Candidate, error)
}
