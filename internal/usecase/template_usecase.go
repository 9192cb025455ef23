package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
	"hrdocflow/internal/placeholder"
)

// SaveTemplateRequest carries template create/update fields.
type SaveTemplateRequest struct {
	Name          string                  `json:"name"`
	Content       string                  `json:"content"`
	CustomInputs  []entity.CustomInputDef `json:"custom_inputs"`
	IsActive      *bool                   `json:"is_active"`
	IsDeletable   *bool                   `json:"is_deletable"`
	PrintSettings *entity.PrintSettings   `json:"print_settings"`
}

type TemplateUsecase interface {
	Get(ctx context.Context, id string) (*entity.Template, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Template, error)
	Create(ctx context.Context, req *SaveTemplateRequest) (*entity.Template, error)
	Update(ctx context.Context, id string, req *SaveTemplateRequest) (*entity.Template, error)
	Delete(ctx context.Context, id string) error
	// Preview renders the template content against the dictionary examples,
	// for the editor's preview pane.
	Preview(ctx context.Context, id string) (string, error)
}

type templateUsecase struct {
	templates repository.TemplateRepository
	documents repository.DocumentRepository
	logger    *zap.Logger
}

func NewTemplateUsecase(
	templates repository.TemplateRepository,
	documents repository.DocumentRepository,
	logger *zap.Logger,
) TemplateUsecase {
	return &templateUsecase{
		templates: templates,
		documents: documents,
		logger:    logger,
	}
}

func (u *templateUsecase) Get(ctx context.Context, id string) (*entity.Template, error) {
	return u.templates.Get(ctx, id)
}

func (u *templateUsecase) List(ctx context.Context, activeOnly bool) ([]*entity.Template, error) {
	return u.templates.List(ctx, activeOnly)
}

func (u *templateUsecase) Create(ctx context.Context, req *SaveTemplateRequest) (*entity.Template, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: template name is required", entity.ErrValidation)
	}
	if err := validateCustomInputs(req.CustomInputs); err != nil {
		return nil, err
	}

	tpl := &entity.Template{
		Name:         req.Name,
		Content:      req.Content,
		CustomInputs: sortedInputs(req.CustomInputs),
		IsActive:     true,
		IsDeletable:  req.IsDeletable,
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if req.PrintSettings != nil {
		tpl.PrintSettings = *req.PrintSettings
	}

	id, err := u.templates.Create(ctx, tpl)
	if err != nil {
		return nil, err
	}
	tpl.ID = id
	return tpl, nil
}

func (u *templateUsecase) Update(ctx context.Context, id string, req *SaveTemplateRequest) (*entity.Template, error) {
	if err := validateCustomInputs(req.CustomInputs); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Content != "" {
		fields["content"] = req.Content
	}
	if req.CustomInputs != nil {
		fields["customInputs"] = sortedInputs(req.CustomInputs)
	}
	if req.IsActive != nil {
		fields["isActive"] = *req.IsActive
	}
	if req.IsDeletable != nil {
		fields["isDeletable"] = *req.IsDeletable
	}
	if req.PrintSettings != nil {
		fields["printSettings"] = *req.PrintSettings
	}
	if len(fields) == 0 {
		return u.templates.Get(ctx, id)
	}

	if err := u.templates.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	u.logger.Info("Template updated", zap.String("template_id", id))
	return u.templates.Get(ctx, id)
}

func (u *templateUsecase) Delete(ctx context.Context, id string) error {
	tpl, err := u.templates.Get(ctx, id)
	if err != nil {
		return err
	}
	if !tpl.DeletionAllowed() {
		return entity.ErrNotDeletable
	}

	// Templates with live documents are deactivated instead of removed, so
	// existing drafts keep their restore source.
	docs, err := u.documents.List(ctx, entity.DocumentFilter{TemplateID: id, Limit: 1})
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		u.logger.Info("Template has documents, deactivating instead of deleting",
			zap.String("template_id", id),
		)
		return u.templates.Update(ctx, id, map[string]interface{}{"isActive": false})
	}

	return u.templates.Delete(ctx, id)
}

func (u *templateUsecase) Preview(ctx context.Context, id string) (string, error) {
	tpl, err := u.templates.Get(ctx, id)
	if err != nil {
		return "", err
	}

	values := make(map[string]string, len(placeholder.Fields))
	for _, f := range placeholder.Fields {
		values[f.Key] = f.Example
	}
	return placeholder.NormalizeNewlines(placeholder.Resolve(tpl.Content, values)), nil
}

func validateCustomInputs(defs []entity.CustomInputDef) error {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if d.Key == "" {
			return fmt.Errorf("%w: custom input key is required", entity.ErrValidation)
		}
		if seen[d.Key] {
			return fmt.Errorf("%w: duplicate custom input key %q", entity.ErrValidation, d.Key)
		}
		seen[d.Key] = true
		switch d.Type {
		case "", "string", "number", "date", "boolean":
		default:
			return fmt.Errorf("%w: unknown custom input type %q", entity.ErrValidation, d.Type)
		}
	}
	return nil
}

func sortedInputs(defs []entity.CustomInputDef) []entity.CustomInputDef {
	out := make([]entity.CustomInputDef, len(defs))
	copy(out, defs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
