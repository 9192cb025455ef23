package repository

import (
	"context"
	"time"

	"hrdocflow/internal/domain/entity"
)

// DirectoryRepository reads HR master data (employees, departments,
// positions, company). It is read-mostly; the single write is the alumni
// stage update applied by the outbox worker after a release approval.
type DirectoryRepository interface {
	GetEmployee(ctx context.Context, id string) (*entity.Employee, error)
	ListEmployees(ctx context.Context) ([]*entity.Employee, error)
	GetDepartment(ctx context.Context, id string) (*entity.Department, error)
	ListDepartments(ctx context.Context) ([]*entity.Department, error)
	GetPosition(ctx context.Context, id string) (*entity.Position, error)
	ListPositions(ctx context.Context) ([]*entity.Position, error)
	GetCompany(ctx context.Context) (*entity.Company, error)

	// SetEmployeeStage moves an employee to the given lifecycle stage. The
	// termination date is only stored when moving to alumni.
	SetEmployeeStage(ctx context.Context, employeeID, stage string, terminationDate *time.Time) error
}
