package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
	"hrdocflow/internal/infrastructure/storage"
	"hrdocflow/internal/outbox"
	"hrdocflow/internal/placeholder"
	"hrdocflow/internal/workflow"
)

// Actor identifies who triggered an operation. PositionID is the position the
// actor currently occupies and is used for reviewer matching.
type Actor struct {
	ID         string
	PositionID string
}

// CreateDocumentRequest instantiates a template into a new draft document.
type CreateDocumentRequest struct {
	TemplateID       string            `json:"template_id"`
	EmployeeID       string            `json:"employee_id"`
	DepartmentID     string            `json:"department_id"`
	PositionID       string            `json:"position_id"`
	Reviewers        []string          `json:"reviewers"`
	IsReviewRequired bool              `json:"is_review_required"`
	ActionType       string            `json:"action_type"`
	CustomInputs     map[string]string `json:"custom_inputs"`
}

// SaveDraftRequest carries the fields a Save Draft persists.
type SaveDraftRequest struct {
	Content      *string           `json:"content"`
	Reviewers    []string          `json:"reviewers"`
	EmployeeID   *string           `json:"employee_id"`
	DepartmentID *string           `json:"department_id"`
	PositionID   *string           `json:"position_id"`
	CustomInputs map[string]string `json:"custom_inputs"`
}

type DocumentUsecase interface {
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error)
	Create(ctx context.Context, actor Actor, req *CreateDocumentRequest) (*entity.Document, error)
	SaveDraft(ctx context.Context, actor Actor, id string, req *SaveDraftRequest) (*entity.Document, error)
	SendForReview(ctx context.Context, actor Actor, id string) (*entity.Document, error)
	Approve(ctx context.Context, actor Actor, id string) (*entity.Document, error)
	Reject(ctx context.Context, actor Actor, id string) (*entity.Document, error)
	AttachSignedCopy(ctx context.Context, actor Actor, id, filename string, data []byte) (*entity.Document, error)
	FinalApprove(ctx context.Context, actor Actor, id string) (*entity.Document, error)
	Delete(ctx context.Context, actor Actor, id string) error
	RestoreContent(ctx context.Context, actor Actor, id string) (*entity.Document, error)
	Render(ctx context.Context, id string) (string, error)
}

type documentUsecase struct {
	config     *config.Config
	documents  repository.DocumentRepository
	templates  repository.TemplateRepository
	activities repository.ActivityRepository
	directory  repository.DirectoryRepository
	uploader   storage.Uploader
	queue      *outbox.Queue
	logger     *zap.Logger
}

func NewDocumentUsecase(
	cfg *config.Config,
	documents repository.DocumentRepository,
	templates repository.TemplateRepository,
	activities repository.ActivityRepository,
	directory repository.DirectoryRepository,
	uploader storage.Uploader,
	queue *outbox.Queue,
	logger *zap.Logger,
) DocumentUsecase {
	return &documentUsecase{
		config:     cfg,
		documents:  documents,
		templates:  templates,
		activities: activities,
		directory:  directory,
		uploader:   uploader,
		queue:      queue,
		logger:     logger,
	}
}

func (u *documentUsecase) Get(ctx context.Context, id string) (*entity.Document, error) {
	return u.documents.Get(ctx, id)
}

func (u *documentUsecase) List(ctx context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	return u.documents.List(ctx, filter)
}

func (u *documentUsecase) Create(ctx context.Context, actor Actor, req *CreateDocumentRequest) (*entity.Document, error) {
	u.logger.Info("Creating document",
		zap.String("template_id", req.TemplateID),
		zap.String("actor_id", actor.ID),
	)

	tpl, err := u.templates.Get(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, fmt.Errorf("%w: template %s is not active", entity.ErrValidation, tpl.ID)
	}

	doc := &entity.Document{
		TemplateID:       tpl.ID,
		Content:          tpl.Content,
		Status:           entity.StatusDraft,
		Reviewers:        dedupe(req.Reviewers),
		ApprovalStatus:   map[string]entity.ApprovalEntry{},
		IsReviewRequired: req.IsReviewRequired,
		CustomInputs:     req.CustomInputs,
		ActionType:       req.ActionType,
		EmployeeID:       req.EmployeeID,
		DepartmentID:     req.DepartmentID,
		PositionID:       req.PositionID,
	}
	if doc.ActionType == "" {
		doc.ActionType = entity.ActionTypeGeneral
	}
	if doc.CustomInputs == nil {
		doc.CustomInputs = map[string]string{}
	}
	doc.Metadata = u.buildDisplayCache(ctx, doc, tpl)

	id, err := u.documents.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = id

	u.appendActivity(ctx, &entity.Activity{
		SubjectID: id,
		Type:      entity.ActivitySystem,
		ActorID:   actor.ID,
		Content:   "Document created from template " + tpl.Name,
	})

	return doc, nil
}

func (u *documentUsecase) SaveDraft(ctx context.Context, actor Actor, id string, req *SaveDraftRequest) (*entity.Document, error) {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := workflow.Apply(doc, workflow.Event{
		Type:    workflow.EventSaveDraft,
		ActorID: actor.ID,
		Now:     time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Content != nil {
		doc.Content = *req.Content
		fields["content"] = *req.Content
	}
	if req.Reviewers != nil {
		doc.Reviewers = dedupe(req.Reviewers)
		fields["reviewers"] = doc.Reviewers
	}
	if req.EmployeeID != nil {
		doc.EmployeeID = *req.EmployeeID
		fields["employeeId"] = *req.EmployeeID
	}
	if req.DepartmentID != nil {
		doc.DepartmentID = *req.DepartmentID
		fields["departmentId"] = *req.DepartmentID
	}
	if req.PositionID != nil {
		doc.PositionID = *req.PositionID
		fields["positionId"] = *req.PositionID
	}
	if req.CustomInputs != nil {
		doc.CustomInputs = req.CustomInputs
		fields["customInputs"] = req.CustomInputs
	}

	// The display cache is refreshed on every save and never read by
	// transition guards.
	tpl, err := u.templates.Get(ctx, doc.TemplateID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}
	doc.Metadata = u.buildDisplayCache(ctx, doc, tpl)
	fields["metadata"] = doc.Metadata

	if err := u.documents.Update(ctx, id, fields); err != nil {
		return nil, err
	}

	u.logger.Info("Draft saved",
		zap.String("document_id", id),
		zap.String("actor_id", actor.ID),
	)
	return doc, nil
}

func (u *documentUsecase) SendForReview(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	return u.applyEvent(ctx, actor, id, workflow.Event{
		Type:    workflow.EventSendForReview,
		ActorID: actor.ID,
	})
}

func (u *documentUsecase) Approve(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	return u.applyEvent(ctx, actor, id, workflow.Event{
		Type:            workflow.EventReviewerApprove,
		ActorID:         actor.ID,
		ActorPositionID: actor.PositionID,
	})
}

func (u *documentUsecase) Reject(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	return u.applyEvent(ctx, actor, id, workflow.Event{
		Type:            workflow.EventReviewerReject,
		ActorID:         actor.ID,
		ActorPositionID: actor.PositionID,
	})
}

func (u *documentUsecase) AttachSignedCopy(ctx context.Context, actor Actor, id, filename string, data []byte) (*entity.Document, error) {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: signed copy is empty", entity.ErrValidation)
	}
	// Guard before paying for the upload; the workflow checks again after.
	if doc.Status.Normalize() != entity.StatusReviewed {
		return nil, fmt.Errorf("attach signed copy from %s: %w", doc.Status, entity.ErrInvalidTransition)
	}

	url, err := u.uploader.UploadSignedCopy(ctx, id, filename, data)
	if err != nil {
		return nil, err
	}

	out, err := workflow.Apply(doc, workflow.Event{
		Type:         workflow.EventAttachSignedCopy,
		ActorID:      actor.ID,
		SignedDocURL: url,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := u.documents.Update(ctx, id, map[string]interface{}{
		"signedDocUrl": url,
	}); err != nil {
		return nil, err
	}
	doc.SignedDocURL = url

	u.runEffects(ctx, doc, out)
	return doc, nil
}

func (u *documentUsecase) FinalApprove(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	return u.applyEvent(ctx, actor, id, workflow.Event{
		Type:    workflow.EventFinalApprove,
		ActorID: actor.ID,
	})
}

func (u *documentUsecase) Delete(ctx context.Context, actor Actor, id string) error {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return err
	}

	tpl, err := u.templates.Get(ctx, doc.TemplateID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return err
	}
	if tpl != nil && !tpl.DeletionAllowed() {
		return entity.ErrNotDeletable
	}

	out, err := workflow.Apply(doc, workflow.Event{
		Type:    workflow.EventDelete,
		ActorID: actor.ID,
		Now:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	for _, eff := range out.Effects {
		if eff.Type == workflow.EffectDelete {
			if err := u.documents.Delete(ctx, id); err != nil {
				return err
			}
		}
	}

	u.logger.Info("Document deleted",
		zap.String("document_id", id),
		zap.String("actor_id", actor.ID),
	)
	return nil
}

// RestoreContent overwrites the document content with the template's
// canonical content. Destructive: user edits are not merged.
func (u *documentUsecase) RestoreContent(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := workflow.Apply(doc, workflow.Event{
		Type:    workflow.EventSaveDraft,
		ActorID: actor.ID,
		Now:     time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("restore content: %w", err)
	}

	tpl, err := u.templates.Get(ctx, doc.TemplateID)
	if err != nil {
		return nil, err
	}

	if err := u.documents.Update(ctx, id, map[string]interface{}{
		"content": tpl.Content,
	}); err != nil {
		return nil, err
	}
	doc.Content = tpl.Content

	u.appendActivity(ctx, &entity.Activity{
		SubjectID: id,
		Type:      entity.ActivitySystem,
		ActorID:   actor.ID,
		Content:   "Content restored from template",
	})
	return doc, nil
}

// Render resolves the document's placeholders against the directory and
// returns the final text for preview or print.
func (u *documentUsecase) Render(ctx context.Context, id string) (string, error) {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return "", err
	}
	rc := u.buildRenderContext(ctx, doc)
	return placeholder.Render(doc.Content, rc, doc.CustomInputs), nil
}

// applyEvent is the shared fetch, transition, persist, effects pipeline for
// pure status events.
func (u *documentUsecase) applyEvent(ctx context.Context, actor Actor, id string, ev workflow.Event) (*entity.Document, error) {
	doc, err := u.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ev.Now = time.Now().UTC()
	out, err := workflow.Apply(doc, ev)
	if err != nil {
		u.logger.Warn("Workflow event rejected",
			zap.String("document_id", id),
			zap.String("event", string(ev.Type)),
			zap.String("status", string(doc.Status)),
			zap.Error(err),
		)
		return nil, err
	}

	// Status and approval mutations go out as one write; the store only
	// guarantees per-document atomicity and this leans on it.
	if err := u.documents.Update(ctx, id, map[string]interface{}{
		"status":         string(out.Status),
		"approvalStatus": out.ApprovalStatus,
	}); err != nil {
		return nil, err
	}
	doc.Status = out.Status
	doc.ApprovalStatus = out.ApprovalStatus

	u.logger.Info("Workflow event applied",
		zap.String("document_id", id),
		zap.String("event", string(ev.Type)),
		zap.String("new_status", string(out.Status)),
		zap.String("actor_id", actor.ID),
	)

	u.runEffects(ctx, doc, out)
	return doc, nil
}

// runEffects performs activity appends and outbox enqueues. All of it is
// best-effort relative to the already-persisted primary write: failures are
// logged, never propagated.
func (u *documentUsecase) runEffects(ctx context.Context, doc *entity.Document, out *workflow.Outcome) {
	for _, eff := range out.Effects {
		switch eff.Type {
		case workflow.EffectActivity:
			u.appendActivity(ctx, eff.Activity)
		case workflow.EffectEmployeeRelease:
			termination := u.terminationDate(doc)
			if err := u.queue.EnqueueEmployeeRelease(ctx, doc.ID, doc.EmployeeID, termination); err != nil {
				u.logger.Error("Failed to enqueue employee release, approval stands",
					zap.String("document_id", doc.ID),
					zap.String("employee_id", doc.EmployeeID),
					zap.Error(err),
				)
			}
		}
	}
}

func (u *documentUsecase) appendActivity(ctx context.Context, act *entity.Activity) {
	if _, err := u.activities.Append(ctx, act); err != nil {
		u.logger.Error("Failed to append activity",
			zap.String("subject_id", act.SubjectID),
			zap.String("type", string(act.Type)),
			zap.Error(err),
		)
	}
}

func (u *documentUsecase) terminationDate(doc *entity.Document) *time.Time {
	raw, ok := doc.CustomInputs[entity.TerminationDateInput]
	if !ok || raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		u.logger.Warn("Unparseable termination date custom input",
			zap.String("document_id", doc.ID),
			zap.String("value", raw),
		)
		return nil
	}
	return &t
}

// buildDisplayCache refreshes the denormalized display names. Lookups are
// best-effort; a missing relation leaves the name empty.
func (u *documentUsecase) buildDisplayCache(ctx context.Context, doc *entity.Document, tpl *entity.Template) entity.DisplayCache {
	cache := entity.DisplayCache{}
	if tpl != nil {
		cache.TemplateName = tpl.Name
	}
	if doc.EmployeeID != "" {
		if emp, err := u.directory.GetEmployee(ctx, doc.EmployeeID); err == nil {
			cache.EmployeeName = emp.FullName()
		}
	}
	if doc.DepartmentID != "" {
		if dep, err := u.directory.GetDepartment(ctx, doc.DepartmentID); err == nil {
			cache.DepartmentName = dep.Name
		}
	}
	if doc.PositionID != "" {
		if pos, err := u.directory.GetPosition(ctx, doc.PositionID); err == nil {
			cache.PositionName = pos.Title
		}
	}
	return cache
}

func (u *documentUsecase) buildRenderContext(ctx context.Context, doc *entity.Document) placeholder.RenderContext {
	rc := placeholder.RenderContext{
		System: placeholder.Section{
			"date":       time.Now().Format("2006-01-02"),
			"documentNo": doc.ID,
		},
	}

	if doc.EmployeeID != "" {
		if emp, err := u.directory.GetEmployee(ctx, doc.EmployeeID); err == nil {
			rc.Employee = placeholder.Section{
				"firstName": emp.FirstName,
				"lastName":  emp.LastName,
				"email":     emp.Email,
				"phone":     emp.Phone,
			}
			if emp.HiredAt != nil {
				rc.Employee["hiredDate"] = emp.HiredAt.Format("2006-01-02")
			}
		}
	}
	if doc.DepartmentID != "" {
		if dep, err := u.directory.GetDepartment(ctx, doc.DepartmentID); err == nil {
			rc.Department = placeholder.Section{"name": dep.Name}
		}
	}
	if doc.PositionID != "" {
		if pos, err := u.directory.GetPosition(ctx, doc.PositionID); err == nil {
			rc.Position = placeholder.Section{"title": pos.Title}
		}
	}
	if company, err := u.directory.GetCompany(ctx); err == nil {
		rc.Company = placeholder.Section{
			"name":    company.Name,
			"address": company.Address,
			"phone":   company.Phone,
		}
	}
	return rc
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
