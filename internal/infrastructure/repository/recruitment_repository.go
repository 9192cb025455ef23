package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
)

type vacancyRepository struct {
	col    *firestore.CollectionRef
	logger *zap.Logger
}

func NewVacancyRepository(cfg *config.Config, client *firestore.Client, logger *zap.Logger) repository.VacancyRepository {
	return &vacancyRepository{
		col:    client.Collection(cfg.Firestore.VacanciesCollection),
		logger: logger,
	}
}

func (r *vacancyRepository) Get(ctx context.Context, id string) (*entity.Vacancy, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("vacancy %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vacancy %s: %w", id, err)
	}
	var v entity.Vacancy
	if err := snap.DataTo(&v); err != nil {
		return nil, fmt.Errorf("failed to decode vacancy %s: %w", id, err)
	}
	v.ID = snap.Ref.ID
	return &v, nil
}

func (r *vacancyRepository) Create(ctx context.Context, v *entity.Vacancy) (string, error) {
	ref := r.col.NewDoc()
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	if _, err := ref.Create(ctx, v); err != nil {
		return "", fmt.Errorf("failed to create vacancy: %w", err)
	}
	r.logger.Info("Vacancy created",
		zap.String("vacancy_id", ref.ID),
		zap.String("title", v.Title),
	)
	return ref.ID, nil
}

func (r *vacancyRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	if _, err := r.col.Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("vacancy %s: %w", id, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to update vacancy %s: %w", id, err)
	}
	return nil
}

func (r *vacancyRepository) List(ctx context.Context) ([]*entity.Vacancy, error) {
	iter := r.col.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var out []*entity.Vacancy
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list vacancies: %w", err)
		}
		var v entity.Vacancy
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode vacancy %s: %w", snap.Ref.ID, err)
		}
		v.ID = snap.Ref.ID
		out = append(out, &v)
	}
	return out, nil
}

type candidateRepository struct {
	col    *firestore.CollectionRef
	logger *zap.Logger
}

func NewCandidateRepository(cfg *config.Config, client *firestore.Client, logger *zap.Logger) repository.CandidateRepository {
	return &candidateRepository{
		col:    client.Collection(cfg.Firestore.CandidatesCollection),
		logger: logger,
	}
}

func (r *candidateRepository) Get(ctx context.Context, id string) (*entity.Candidate, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("candidate %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	var c entity.Candidate
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode candidate %s: %w", id, err)
	}
	c.ID = snap.Ref.ID
	return &c, nil
}

func (r *candidateRepository) Create(ctx context.Context, c *entity.Candidate) (string, error) {
	ref := r.col.NewDoc()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	if _, err := ref.Create(ctx, c); err != nil {
		return "", fmt.Errorf("failed to create candidate: %w", err)
	}
	r.logger.Info("Candidate created",
		zap.String("candidate_id", ref.ID),
		zap.String("vacancy_id", c.VacancyID),
	)
	return ref.ID, nil
}

func (r *candidateRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	if _, err := r.col.Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("candidate %s: %w", id, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to update candidate %s: %w", id, err)
	}
	return nil
}

func (r *candidateRepository) ListByVacancy(ctx context.Context, vacancyID string) ([]*entity.Candidate, error) {
	iter := r.col.
		Where("vacancyId", "==", vacancyID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var out []*entity.Candidate
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list candidates for vacancy %s: %w", vacancyID, err)
		}
		var c entity.Candidate
		if err := snap.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode candidate %s: %w", snap.Ref.ID, err)
		}
		c.ID = snap.Ref.ID
		out = append(out, &c)
	}
	return out, nil
}
