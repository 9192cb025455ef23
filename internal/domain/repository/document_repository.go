package repository

import (
	"context"

	"hrdocflow/internal/domain/entity"
)

// DocumentRepository is the persistence boundary for documents. The backing
// store guarantees per-document write atomicity and nothing across documents.
type DocumentRepository interface {
	Get(ctx context.Context, id string) (*entity.Document, error)
	Create(ctx context.Context, doc *entity.Document) (string, error)
	// Update applies a partial field update. Keys are store field paths.
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error)
}
