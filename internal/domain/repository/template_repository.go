package repository

import (
	"context"

	"hrdocflow/internal/domain/entity"
)

type TemplateRepository interface {
	Get(ctx context.Context, id string) (*entity.Template, error)
	Create(ctx context.Context, tpl *entity.Template) (string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	// List returns templates, optionally only active ones.
	List(ctx context.Context, activeOnly bool) ([]*entity.Template, error)
}
