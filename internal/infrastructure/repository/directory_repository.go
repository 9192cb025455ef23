package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hrdocflow/internal/domain/entity"
	"hrdocflow/internal/domain/repository"
	"hrdocflow/internal/infrastructure/database"
)

type directoryRepository struct {
	db     *database.Database
	logger *zap.Logger
}

func NewDirectoryRepository(db *database.Database, logger *zap.Logger) repository.DirectoryRepository {
	return &directoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *directoryRepository) GetEmployee(ctx context.Context, id string) (*entity.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, department_id, position_id, stage, hired_at, termination_date
		FROM employees WHERE id = $1
	`
	var e entity.Employee
	err := r.db.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
		&e.DepartmentID, &e.PositionID, &e.Stage, &e.HiredAt, &e.TerminationDate,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee %s: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	return &e, nil
}

func (r *directoryRepository) ListEmployees(ctx context.Context) ([]*entity.Employee, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, department_id, position_id, stage, hired_at, termination_date
		FROM employees ORDER BY last_name, first_name
	`
	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []*entity.Employee
	for rows.Next() {
		var e entity.Employee
		if err := rows.Scan(
			&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone,
			&e.DepartmentID, &e.PositionID, &e.Stage, &e.HiredAt, &e.TerminationDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *directoryRepository) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	var d entity.Department
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT id, name, parent_id FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.ParentID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("department %s: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department %s: %w", id, err)
	}
	return &d, nil
}

func (r *directoryRepository) ListDepartments(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.db.DB.QueryContext(ctx, `SELECT id, name, parent_id FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *directoryRepository) GetPosition(ctx context.Context, id string) (*entity.Position, error) {
	var p entity.Position
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT id, title, department_id, occupant_id FROM positions WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.DepartmentID, &p.OccupantID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("position %s: %w", id, entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position %s: %w", id, err)
	}
	return &p, nil
}

func (r *directoryRepository) ListPositions(ctx context.Context) ([]*entity.Position, error) {
	rows, err := r.db.DB.QueryContext(ctx,
		`SELECT id, title, department_id, occupant_id FROM positions ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var out []*entity.Position
	for rows.Next() {
		var p entity.Position
		if err := rows.Scan(&p.ID, &p.Title, &p.DepartmentID, &p.OccupantID); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// GetCompany returns the single company record the directory holds.
func (r *directoryRepository) GetCompany(ctx context.Context) (*entity.Company, error) {
	var c entity.Company
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT id, name, address, phone, email FROM companies LIMIT 1`,
	).Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("company: %w", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// SetEmployeeStage is idempotent: re-applying the same stage is a no-op
// update, which lets the outbox worker retry safely.
func (r *directoryRepository) SetEmployeeStage(ctx context.Context, employeeID, stage string, terminationDate *time.Time) error {
	var result sql.Result
	var err error
	if stage == entity.StageAlumni {
		result, err = r.db.DB.ExecContext(ctx,
			`UPDATE employees SET stage = $1, termination_date = $2 WHERE id = $3`,
			stage, terminationDate, employeeID,
		)
	} else {
		result, err = r.db.DB.ExecContext(ctx,
			`UPDATE employees SET stage = $1 WHERE id = $2`,
			stage, employeeID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to set employee %s stage: %w", employeeID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("employee %s: %w", employeeID, entity.ErrNotFound)
	}

	r.logger.Info("Employee stage updated",
		zap.String("employee_id", employeeID),
		zap.String("stage", stage),
	)
	return nil
}
