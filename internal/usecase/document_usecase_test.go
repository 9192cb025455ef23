package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/infrastructure/redis"
	"hrdocflow/internal/outbox"
)

type fakeDocumentRepo struct {
	docs   map[string]*entity.Document
	nextID int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[string]*entity.Document{}}
}

func (r *fakeDocumentRepo) Get(_ context.Context, id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) (string, error) {
	r.nextID++
	id := fmt.Sprintf("doc-%d", r.nextID)
	cp := *doc
	cp.ID = id
	r.docs[id] = &cp
	return id, nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	doc, ok := r.docs[id]
	if !ok {
		return entity.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "status":
			doc.Status = entity.DocumentStatus(v.(string))
		case "approvalStatus":
			doc.ApprovalStatus = v.(map[string]entity.ApprovalEntry)
		case "signedDocUrl":
			doc.SignedDocURL = v.(string)
		case "content":
			doc.Content = v.(string)
		case "reviewers":
			doc.Reviewers = v.([]string)
		case "employeeId":
			doc.EmployeeID = v.(string)
		case "departmentId":
			doc.DepartmentID = v.(string)
		case "positionId":
			doc.PositionID = v.(string)
		case "customInputs":
			doc.CustomInputs = v.(map[string]string)
		case "metadata":
			doc.Metadata = v.(entity.DisplayCache)
		}
	}
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return entity.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) List(_ context.Context, filter entity.DocumentFilter) ([]*entity.Document, error) {
	out := make([]*entity.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if filter.TemplateID != "" && doc.TemplateID != filter.TemplateID {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		if filter.EmployeeID != "" && doc.EmployeeID != filter.EmployeeID {
			continue
		}
		cp := *doc
		out = append(out, &cp)
	}
	return out, nil
}

type fakeTemplateRepo struct {
	templates map[string]*entity.Template
}

func (r *fakeTemplateRepo) Get(_ context.Context, id string) (*entity.Template, error) {
	tpl, ok := r.templates[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

func (r *fakeTemplateRepo) Create(_ context.Context, tpl *entity.Template) (string, error) {
	r.templates[tpl.ID] = tpl
	return tpl.ID, nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	delete(r.templates, id)
	return nil
}

func (r *fakeTemplateRepo) List(_ context.Context, _ bool) ([]*entity.Template, error) {
	return nil, nil
}

type fakeActivityRepo struct {
	entries []*entity.Activity
}

func (r *fakeActivityRepo) Append(_ context.Context, act *entity.Activity) (string, error) {
	cp := *act
	cp.ID = fmt.Sprintf("act-%d", len(r.entries)+1)
	cp.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *fakeActivityRepo) ListBySubject(_ context.Context, subjectID string) ([]*entity.Activity, error) {
	var out []*entity.Activity
	for _, act := range r.entries {
		if act.SubjectID == subjectID {
			out = append(out, act)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) Watch(_ context.Context, _ string, _ func(*entity.Activity)) error {
	return nil
}

func (r *fakeActivityRepo) bySubject(subjectID string) []*entity.Activity {
	out, _ := r.ListBySubject(context.Background(), subjectID)
	return out
}

type fakeDirectoryRepo struct {
	employees   map[string]*entity.Employee
	departments map[string]*entity.Department
	positions   map[string]*entity.Position
	company     *entity.Company
}

func (r *fakeDirectoryRepo) GetEmployee(_ context.Context, id string) (*entity.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return emp, nil
}

func (r *fakeDirectoryRepo) ListEmployees(_ context.Context) ([]*entity.Employee, error) {
	return nil, nil
}

func (r *fakeDirectoryRepo) GetDepartment(_ context.Context, id string) (*entity.Department, error) {
	dep, ok := r.departments[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return dep, nil
}

func (r *fakeDirectoryRepo) ListDepartments(_ context.Context) ([]*entity.Department, error) {
	return nil, nil
}

func (r *fakeDirectoryRepo) GetPosition(_ context.Context, id string) (*entity.Position, error) {
	pos, ok := r.positions[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return pos, nil
}

func (r *fakeDirectoryRepo) ListPositions(_ context.Context) ([]*entity.Position, error) {
	return nil, nil
}

func (r *fakeDirectoryRepo) GetCompany(_ context.Context) (*entity.Company, error) {
	if r.company == nil {
		return nil, entity.ErrNotFound
	}
	return r.company, nil
}

func (r *fakeDirectoryRepo) SetEmployeeStage(_ context.Context, employeeID, stage string, _ *time.Time) error {
	emp, ok := r.employees[employeeID]
	if !ok {
		return entity.ErrNotFound
	}
	emp.Stage = stage
	return nil
}

type fakeUploader struct {
	calls int
}

func (u *fakeUploader) UploadSignedCopy(_ context.Context, documentID, filename string, _ []byte) (string, error) {
	u.calls++
	return "gs://test-bucket/signed/" + documentID + "/" + filename, nil
}

type fixture struct {
	usecase    DocumentUsecase
	docs       *fakeDocumentRepo
	templates  *fakeTemplateRepo
	activities *fakeActivityRepo
	directory  *fakeDirectoryRepo
	uploader   *fakeUploader
}

// deadQueue returns an outbox queue pointed at an unreachable address, so
// enqueue attempts fail quickly.
func deadQueue(t *testing.T) *outbox.Queue {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.Queue = "test:outbox"
	cfg.Outbox.ProcessingList = "test:outbox:processing"
	client := &redis.RedisClient{Client: goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
	})}
	return outbox.NewQueue(cfg, client, zap.NewNop())
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hired := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	f := &fixture{
		docs: newFakeDocumentRepo(),
		templates: &fakeTemplateRepo{templates: map[string]*entity.Template{
			"tpl-offer": {
				ID:       "tpl-offer",
				Name:     "Offer Letter",
				Content:  "Dear {{employee.fullName}}, welcome to {{company.name}}.",
				IsActive: true,
			},
			"tpl-archived": {
				ID:       "tpl-archived",
				Name:     "Old Offer",
				Content:  "obsolete",
				IsActive: false,
			},
		}},
		activities: &fakeActivityRepo{},
		directory: &fakeDirectoryRepo{
			employees: map[string]*entity.Employee{
				"emp-1": {
					ID:        "emp-1",
					FirstName: "Bat",
					LastName:  "Erdene",
					Email:     "bat@example.com",
					Stage:     entity.StageEmployed,
					HiredAt:   &hired,
				},
			},
			departments: map[string]*entity.Department{
				"dep-1": {ID: "dep-1", Name: "Engineering"},
			},
			positions: map[string]*entity.Position{
				"pos-a": {ID: "pos-a", Title: "Engineering Manager", OccupantID: "user-a"},
				"pos-b": {ID: "pos-b", Title: "HR Lead", OccupantID: "user-b"},
			},
			company: &entity.Company{ID: "co-1", Name: "Acme LLC", Address: "1 Main St"},
		},
		uploader: &fakeUploader{},
	}

	f.usecase = NewDocumentUsecase(
		&config.Config{},
		f.docs,
		f.templates,
		f.activities,
		f.directory,
		f.uploader,
		deadQueue(t),
		zap.NewNop(),
	)
	return f
}

func (f *fixture) seed(t *testing.T, doc *entity.Document) string {
	t.Helper()
	id, err := f.docs.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return id
}

func TestCreateFromTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := Actor{ID: "user-hr"}

	doc, err := f.usecase.Create(ctx, actor, &CreateDocumentRequest{
		TemplateID: "tpl-offer",
		EmployeeID: "emp-1",
		Reviewers:  []string{"pos-a", "pos-b", "pos-a"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if doc.Status != entity.StatusDraft {
		t.Errorf("status = %s, want %s", doc.Status, entity.StatusDraft)
	}
	if doc.Content != f.templates.templates["tpl-offer"].Content {
		t.Errorf("content not copied from template")
	}
	if len(doc.Reviewers) != 2 {
		t.Errorf("reviewers = %v, want duplicates removed", doc.Reviewers)
	}
	if doc.Metadata.TemplateName != "Offer Letter" {
		t.Errorf("cached template name = %q", doc.Metadata.TemplateName)
	}
	if doc.Metadata.EmployeeName != "Bat Erdene" {
		t.Errorf("cached employee name = %q", doc.Metadata.EmployeeName)
	}

	acts := f.activities.bySubject(doc.ID)
	if len(acts) != 1 || acts[0].Type != entity.ActivitySystem {
		t.Errorf("expected one system activity after create, got %v", acts)
	}
}

func TestCreateFromInactiveTemplate(t *testing.T) {
	f := newFixture(t)

	_, err := f.usecase.Create(context.Background(), Actor{ID: "user-hr"}, &CreateDocumentRequest{
		TemplateID: "tpl-archived",
	})
	if !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestApprovalPipelinePersistsEachStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:           entity.StatusDraft,
		Reviewers:        []string{"pos-a", "pos-b"},
		IsReviewRequired: true,
		ApprovalStatus:   map[string]entity.ApprovalEntry{},
	})

	doc, err := f.usecase.SendForReview(ctx, Actor{ID: "user-hr"}, id)
	if err != nil {
		t.Fatalf("SendForReview: %v", err)
	}
	if doc.Status != entity.StatusInReview {
		t.Fatalf("status = %s, want %s", doc.Status, entity.StatusInReview)
	}
	stored, _ := f.docs.Get(ctx, id)
	if stored.Status != entity.StatusInReview {
		t.Fatalf("stored status = %s, want %s", stored.Status, entity.StatusInReview)
	}
	for _, pos := range []string{"pos-a", "pos-b"} {
		if stored.ApprovalStatus[pos].Status != entity.ApprovalPending {
			t.Errorf("entry %s = %v, want PENDING", pos, stored.ApprovalStatus[pos])
		}
	}

	doc, err = f.usecase.Approve(ctx, Actor{ID: "user-a", PositionID: "pos-a"}, id)
	if err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if doc.Status != entity.StatusInReview {
		t.Fatalf("status after first approval = %s, want still %s", doc.Status, entity.StatusInReview)
	}

	doc, err = f.usecase.Approve(ctx, Actor{ID: "user-b", PositionID: "pos-b"}, id)
	if err != nil {
		t.Fatalf("second Approve: %v", err)
	}
	if doc.Status != entity.StatusReviewed {
		t.Fatalf("status after all approvals = %s, want %s", doc.Status, entity.StatusReviewed)
	}

	doc, err = f.usecase.AttachSignedCopy(ctx, Actor{ID: "user-hr"}, id, "signed.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("AttachSignedCopy: %v", err)
	}
	if doc.SignedDocURL == "" {
		t.Fatal("signed copy url not recorded")
	}
	if doc.Status != entity.StatusReviewed {
		t.Errorf("attach changed status to %s", doc.Status)
	}

	doc, err = f.usecase.FinalApprove(ctx, Actor{ID: "user-hr"}, id)
	if err != nil {
		t.Fatalf("FinalApprove: %v", err)
	}
	if doc.Status != entity.StatusApproved {
		t.Fatalf("final status = %s, want %s", doc.Status, entity.StatusApproved)
	}

	acts := f.activities.bySubject(id)
	if len(acts) == 0 {
		t.Fatal("no activities logged across the pipeline")
	}
}

func TestSendForReviewWithoutReviewers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:           entity.StatusDraft,
		IsReviewRequired: true,
		ApprovalStatus:   map[string]entity.ApprovalEntry{},
	})

	_, err := f.usecase.SendForReview(ctx, Actor{ID: "user-hr"}, id)
	if !errors.Is(err, entity.ErrReviewersRequired) {
		t.Fatalf("err = %v, want ErrReviewersRequired", err)
	}

	stored, _ := f.docs.Get(ctx, id)
	if stored.Status != entity.StatusDraft {
		t.Errorf("rejected event must not write, stored status = %s", stored.Status)
	}
}

func TestSendForReviewNotRequiredSkipsToReviewed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:         entity.StatusDraft,
		ApprovalStatus: map[string]entity.ApprovalEntry{},
	})

	doc, err := f.usecase.SendForReview(ctx, Actor{ID: "user-hr"}, id)
	if err != nil {
		t.Fatalf("SendForReview: %v", err)
	}
	if doc.Status != entity.StatusReviewed {
		t.Fatalf("status = %s, want %s when review is not required", doc.Status, entity.StatusReviewed)
	}
}

func TestAttachSignedCopyGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{Status: entity.StatusDraft})

	_, err := f.usecase.AttachSignedCopy(ctx, Actor{ID: "user-hr"}, id, "signed.pdf", []byte("%PDF"))
	if !errors.Is(err, entity.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if f.uploader.calls != 0 {
		t.Errorf("uploader called %d times for an undraftable attach", f.uploader.calls)
	}

	reviewed := f.seed(t, &entity.Document{Status: entity.StatusReviewed})
	_, err = f.usecase.AttachSignedCopy(ctx, Actor{ID: "user-hr"}, reviewed, "signed.pdf", nil)
	if !errors.Is(err, entity.ErrValidation) {
		t.Fatalf("empty payload err = %v, want ErrValidation", err)
	}
}

func TestFinalApproveRequiresSignedCopy(t *testing.T) {
	f := newFixture(t)

	id := f.seed(t, &entity.Document{Status: entity.StatusReviewed})

	_, err := f.usecase.FinalApprove(context.Background(), Actor{ID: "user-hr"}, id)
	if !errors.Is(err, entity.ErrSignedCopyRequired) {
		t.Fatalf("err = %v, want ErrSignedCopyRequired", err)
	}
}

func TestFinalApproveSurvivesEnqueueFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:       entity.StatusReviewed,
		SignedDocURL: "gs://test-bucket/signed/x/signed.pdf",
		ActionType:   entity.ActionTypeRelease,
		EmployeeID:   "emp-1",
		CustomInputs: map[string]string{entity.TerminationDateInput: "2026-09-30"},
	})

	// The queue points at an unreachable address. The approval must stand
	// even though the release job cannot be enqueued.
	doc, err := f.usecase.FinalApprove(ctx, Actor{ID: "user-hr"}, id)
	if err != nil {
		t.Fatalf("FinalApprove: %v", err)
	}
	if doc.Status != entity.StatusApproved {
		t.Fatalf("status = %s, want %s", doc.Status, entity.StatusApproved)
	}

	stored, _ := f.docs.Get(ctx, id)
	if stored.Status != entity.StatusApproved {
		t.Errorf("stored status = %s, want %s", stored.Status, entity.StatusApproved)
	}
}

func TestDeleteObeysWorkflowAndTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inReview := f.seed(t, &entity.Document{Status: entity.StatusInReview, TemplateID: "tpl-offer"})
	if err := f.usecase.Delete(ctx, Actor{ID: "user-hr"}, inReview); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Fatalf("delete in review err = %v, want ErrInvalidTransition", err)
	}

	locked := false
	f.templates.templates["tpl-locked"] = &entity.Template{
		ID:          "tpl-locked",
		Name:        "Locked",
		IsActive:    true,
		IsDeletable: &locked,
	}
	fromLocked := f.seed(t, &entity.Document{Status: entity.StatusDraft, TemplateID: "tpl-locked"})
	if err := f.usecase.Delete(ctx, Actor{ID: "user-hr"}, fromLocked); !errors.Is(err, entity.ErrNotDeletable) {
		t.Fatalf("delete from locked template err = %v, want ErrNotDeletable", err)
	}

	draft := f.seed(t, &entity.Document{Status: entity.StatusDraft, TemplateID: "tpl-offer"})
	if err := f.usecase.Delete(ctx, Actor{ID: "user-hr"}, draft); err != nil {
		t.Fatalf("delete draft: %v", err)
	}
	if _, err := f.docs.Get(ctx, draft); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("document still present after delete")
	}
}

func TestRenderResolvesAgainstDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:     entity.StatusDraft,
		Content:    "Dear {{employee.fullName}}, welcome to {{company.name}}.",
		EmployeeID: "emp-1",
	})

	got, err := f.usecase.Render(ctx, id)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Dear Bat Erdene, welcome to Acme LLC."
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unresolved tokens left in %q", got)
	}
}

func TestRestoreContentFromTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := f.seed(t, &entity.Document{
		Status:     entity.StatusDraft,
		TemplateID: "tpl-offer",
		Content:    "heavily edited",
	})

	doc, err := f.usecase.RestoreContent(ctx, Actor{ID: "user-hr"}, id)
	if err != nil {
		t.Fatalf("RestoreContent: %v", err)
	}
	if doc.Content != f.templates.templates["tpl-offer"].Content {
		t.Errorf("content = %q, want template content", doc.Content)
	}

	approved := f.seed(t, &entity.Document{Status: entity.StatusApproved, TemplateID: "tpl-offer"})
	if _, err := f.usecase.RestoreContent(ctx, Actor{ID: "user-hr"}, approved); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Fatalf("restore on approved err = %v, want ErrInvalidTransition", err)
	}
}
