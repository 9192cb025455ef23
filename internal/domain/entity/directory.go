package entity

import "time"

// Employee lifecycle stages tracked by the directory.
const (
	StageEmployed = "employed"
	StageAlumni   = "alumni"
)

// Employee is a directory record owned by the HR master data store.
type Employee struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	DepartmentID    string     `json:"department_id,omitempty"`
	PositionID      string     `json:"position_id,omitempty"`
	Stage           string     `json:"stage"`
	HiredAt         *time.Time `json:"hired_at,omitempty"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`
}

// FullName joins first and last name, tolerating either being empty.
func (e *Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

type Department struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// Position is a job role. OccupantID is the employee currently holding it and
// changes over time; approvals are keyed by position first for that reason.
type Position struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DepartmentID string `json:"department_id,omitempty"`
	OccupantID   string `json:"occupant_id,omitempty"`
}

type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}
