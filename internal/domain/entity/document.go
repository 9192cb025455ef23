package entity

import "time"

// DocumentStatus is the lifecycle state of a document under approval.
type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "DRAFT"
	StatusInReview DocumentStatus = "IN_REVIEW"
	StatusReviewed DocumentStatus = "REVIEWED"
	StatusApproved DocumentStatus = "APPROVED"
	// StatusSigned is a legacy alias still present in old records.
	StatusSigned DocumentStatus = "SIGNED"
)

// Normalize maps legacy statuses onto the current set.
func (s DocumentStatus) Normalize() DocumentStatus {
	if s == StatusSigned {
		return StatusApproved
	}
	return s
}

// ApprovalState is the per-reviewer decision state.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "PENDING"
	ApprovalApproved ApprovalState = "APPROVED"
	ApprovalRejected ApprovalState = "REJECTED"
)

// ApprovalEntry records one reviewer's decision on a document.
type ApprovalEntry struct {
	Status    ApprovalState `firestore:"status" json:"status"`
	ActorID   string        `firestore:"actorId,omitempty" json:"actor_id,omitempty"`
	UpdatedAt time.Time     `firestore:"updatedAt" json:"updated_at"`
}

// ActionType marks what kind of employment action a document performs.
const (
	ActionTypeGeneral = "general"
	ActionTypeRelease = "release"
)

// TerminationDateInput is the custom-input key a release document uses to
// carry the employee's termination date.
const TerminationDateInput = "terminationDate"

// DisplayCache holds denormalized names cached on the document at save time.
// It is display-only: workflow guards never read it.
type DisplayCache struct {
	TemplateName   string `firestore:"templateName,omitempty" json:"template_name,omitempty"`
	DepartmentName string `firestore:"departmentName,omitempty" json:"department_name,omitempty"`
	PositionName   string `firestore:"positionName,omitempty" json:"position_name,omitempty"`
	EmployeeName   string `firestore:"employeeName,omitempty" json:"employee_name,omitempty"`
}

// Document is an instance of a template going through the approval workflow.
type Document struct {
	ID         string         `firestore:"-" json:"id"`
	TemplateID string         `firestore:"templateId" json:"template_id"`
	Content    string         `firestore:"content" json:"content"`
	Status     DocumentStatus `firestore:"status" json:"status"`

	// Reviewers are position ids in insertion order. Order carries no
	// approval-order meaning; all reviewers act in parallel.
	Reviewers      []string                 `firestore:"reviewers" json:"reviewers"`
	ApprovalStatus map[string]ApprovalEntry `firestore:"approvalStatus" json:"approval_status"`

	IsReviewRequired bool              `firestore:"isReviewRequired" json:"is_review_required"`
	CustomInputs     map[string]string `firestore:"customInputs" json:"custom_inputs"`
	SignedDocURL     string            `firestore:"signedDocUrl,omitempty" json:"signed_doc_url,omitempty"`
	ActionType       string            `firestore:"actionType,omitempty" json:"action_type,omitempty"`

	EmployeeID   string `firestore:"employeeId,omitempty" json:"employee_id,omitempty"`
	DepartmentID string `firestore:"departmentId,omitempty" json:"department_id,omitempty"`
	PositionID   string `firestore:"positionId,omitempty" json:"position_id,omitempty"`

	Metadata DisplayCache `firestore:"metadata" json:"metadata"`

	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updated_at"`
}

// DocumentFilter narrows a document listing. Zero-value fields are ignored.
type DocumentFilter struct {
	Status     DocumentStatus
	EmployeeID string
	TemplateID string
	Limit      int
}

// HasReviewer reports whether id is in the reviewer set.
func (d *Document) HasReviewer(id string) bool {
	for _, r := range d.Reviewers {
		if r == id {
			return true
		}
	}
	return false
}
