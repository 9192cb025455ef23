package outbox

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"hrdocflow/internal/config"
	"hrdocflow/internal/domain/entity"
)

// The queue payload is consumed by a worker that may be a different build of
// the service, so the wire keys are load-bearing.
func TestEmployeeReleaseJobWireFormat(t *testing.T) {
	term := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	job := EmployeeReleaseJob{
		JobID:           "job-1",
		DocumentID:      "doc-1",
		EmployeeID:      "emp-1",
		TerminationDate: &term,
		EnqueuedAt:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"job_id"`, `"document_id"`, `"employee_id"`, `"termination_date"`, `"enqueued_at"`} {
		if !strings.Contains(string(payload), key) {
			t.Errorf("payload missing %s: %s", key, payload)
		}
	}

	var got EmployeeReleaseJob
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EmployeeID != job.EmployeeID || !got.TerminationDate.Equal(term) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEmployeeReleaseJobOmitsEmptyTermination(t *testing.T) {
	payload, err := json.Marshal(EmployeeReleaseJob{JobID: "job-2", DocumentID: "doc-2", EmployeeID: "emp-2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(payload), "termination_date") {
		t.Errorf("zero termination date should be omitted: %s", payload)
	}
}

type stageDirectory struct {
	stages   map[string]string
	stageErr error
	setCalls int
}

func (d *stageDirectory) GetEmployee(_ context.Context, id string) (*entity.Employee, error) {
	stage, ok := d.stages[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return &entity.Employee{ID: id, Stage: stage}, nil
}

func (d *stageDirectory) ListEmployees(context.Context) ([]*entity.Employee, error) { return nil, nil }
func (d *stageDirectory) GetDepartment(context.Context, string) (*entity.Department, error) {
	return nil, entity.ErrNotFound
}
func (d *stageDirectory) ListDepartments(context.Context) ([]*entity.Department, error) {
	return nil, nil
}
func (d *stageDirectory) GetPosition(context.Context, string) (*entity.Position, error) {
	return nil, entity.ErrNotFound
}
func (d *stageDirectory) ListPositions(context.Context) ([]*entity.Position, error) { return nil, nil }
func (d *stageDirectory) GetCompany(context.Context) (*entity.Company, error) {
	return nil, entity.ErrNotFound
}

func (d *stageDirectory) SetEmployeeStage(_ context.Context, employeeID, stage string, _ *time.Time) error {
	d.setCalls++
	if d.stageErr != nil {
		return d.stageErr
	}
	if _, ok := d.stages[employeeID]; !ok {
		return entity.ErrNotFound
	}
	d.stages[employeeID] = stage
	return nil
}

func releasePayload(t *testing.T, employeeID string) string {
	t.Helper()
	payload, err := json.Marshal(EmployeeReleaseJob{JobID: "job-1", DocumentID: "doc-1", EmployeeID: employeeID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(payload)
}

func TestProcessMovesEmployeeToAlumni(t *testing.T) {
	dir := &stageDirectory{stages: map[string]string{"emp-1": entity.StageEmployed}}
	w := &Worker{directory: dir, cfg: &config.OutboxConfig{}, logger: zap.NewNop()}

	if err := w.process(context.Background(), releasePayload(t, "emp-1")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if dir.stages["emp-1"] != entity.StageAlumni {
		t.Errorf("stage = %s, want %s", dir.stages["emp-1"], entity.StageAlumni)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	dir := &stageDirectory{stages: map[string]string{"emp-1": entity.StageEmployed}}
	w := &Worker{directory: dir, cfg: &config.OutboxConfig{}, logger: zap.NewNop()}
	payload := releasePayload(t, "emp-1")

	for i := 0; i < 3; i++ {
		if err := w.process(context.Background(), payload); err != nil {
			t.Fatalf("process run %d: %v", i+1, err)
		}
	}
	if dir.setCalls != 1 {
		t.Errorf("stage written %d times, want once", dir.setCalls)
	}
}

func TestProcessDropsUnretryableJobs(t *testing.T) {
	dir := &stageDirectory{stages: map[string]string{}}
	w := &Worker{directory: dir, cfg: &config.OutboxConfig{}, logger: zap.NewNop()}

	// Unknown employee and garbage payloads resolve as done, not as errors,
	// so they never loop through the retry path.
	if err := w.process(context.Background(), releasePayload(t, "emp-gone")); err != nil {
		t.Errorf("unknown employee: %v", err)
	}
	if err := w.process(context.Background(), "not json"); err != nil {
		t.Errorf("garbage payload: %v", err)
	}
	if dir.setCalls != 0 {
		t.Errorf("stage written %d times, want none", dir.setCalls)
	}
}
