package entity

import "errors"

// Domain errors. Handlers map these to HTTP status codes; everything else is
// treated as an internal failure.
var (
	// ErrNotFound marks a missing document, template or directory record.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks a request rejected before any write was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a workflow event applied in the wrong status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrReviewersRequired is returned by Send For Review when review is
	// required but no reviewers were selected.
	ErrReviewersRequired = errors.New("review required but no reviewers selected")

	// ErrSignedCopyRequired blocks Final Approve until a signed copy is attached.
	ErrSignedCopyRequired = errors.New("signed copy must be attached before final approval")

	// ErrAlreadyApproved is returned when a reviewer re-approves their own
	// already-APPROVED entry.
	ErrAlreadyApproved = errors.New("reviewer has already approved")

	// ErrNotDeletable marks a delete blocked by the template's isDeletable flag.
	ErrNotDeletable = errors.New("document template forbids deletion")
)
