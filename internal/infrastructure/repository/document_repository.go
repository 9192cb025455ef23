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

type documentRepository struct {
	col    *firestore.CollectionRef
	logger *zap.Logger
}

func NewDocumentRepository(cfg *config.Config, client *firestore.Client, logger *zap.Logger) repository.DocumentRepository {
	return &documentRepository{
		col:    client.Collection(cfg.Firestore.DocumentsCollection),
		logger: logger,
	}
}

func (r *documentRepository) Get(ctx context.Context, id string) (*entity.Document, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("document %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	var doc entity.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc.ID = snap.Ref.ID
	// Old records may still carry the legacy SIGNED status.
	doc.Status = doc.Status.Normalize()
	return &doc, nil
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) (string, error) {
	ref := r.col.NewDoc()
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	if _, err := ref.Create(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	r.logger.Info("Document created",
		zap.String("document_id", ref.ID),
		zap.String("template_id", doc.TemplateID),
	)
	return ref.ID, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now().UTC()})

	if _, err := r.col.Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("document %s: %w", id, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col.Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	r.logger.Info("Document deleted", zap.String("document_id", id))
	return nil
}

func (r *documentRepository) List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	q := r.col.Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.EmployeeID != "" {
		q = q.Where("employeeId", "==", filter.EmployeeID)
	}
	if filter.TemplateID != "" {
		q = q.Where("templateId", "==", filter.TemplateID)
	}
	q = q.OrderBy("createdAt", firestore.Desc)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []*entity.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		var doc entity.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", snap.Ref.ID, err)
		}
		doc.ID = snap.Ref.ID
		doc.Status = doc.Status.Normalize()
		docs = append(docs, &doc)
	}
	return docs, nil
}
