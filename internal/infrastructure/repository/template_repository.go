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

type templateRepository struct {
	col    *firestore.CollectionRef
	logger *zap.Logger
}

func NewTemplateRepository(cfg *config.Config, client *firestore.Client, logger *zap.Logger) repository.TemplateRepository {
	return &templateRepository{
		col:    client.Collection(cfg.Firestore.TemplatesCollection),
		logger: logger,
	}
}

func (r *templateRepository) Get(ctx context.Context, id string) (*entity.Template, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("template %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template %s: %w", id, err)
	}

	var tpl entity.Template
	if err := snap.DataTo(&tpl); err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", id, err)
	}
	tpl.ID = snap.Ref.ID
	return &tpl, nil
}

func (r *templateRepository) Create(ctx context.Context, tpl *entity.Template) (string, error) {
	ref := r.col.NewDoc()
	tpl.CreatedAt = time.Now().UTC()
	tpl.UpdatedAt = tpl.CreatedAt
	if _, err := ref.Create(ctx, tpl); err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}

	r.logger.Info("Template created",
		zap.String("template_id", ref.ID),
		zap.String("name", tpl.Name),
	)
	return ref.ID, nil
}

func (r *templateRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	if _, err := r.col.Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("template %s: %w", id, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to update template %s: %w", id, err)
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}
	return nil
}

func (r *templateRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Template, error) {
	q := r.col.Query
	if activeOnly {
		q = q.Where("isActive", "==", true)
	}
	iter := q.OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var tpls []*entity.Template
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list templates: %w", err)
		}
		var tpl entity.Template
		if err := snap.DataTo(&tpl); err != nil {
			return nil, fmt.Errorf("failed to decode template %s: %w", snap.Ref.ID, err)
		}
		tpl.ID = snap.Ref.ID
		tpls = append(tpls, &tpl)
	}
	return tpls, nil
}
