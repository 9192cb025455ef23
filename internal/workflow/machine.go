// Package workflow is the document approval state machine, moving documents
// from DRAFT through IN_REVIEW and REVIEWED to APPROVED. The package is pure:
// Apply inspects a document and an event and returns the mutations plus side
// effects to perform, without touching storage or transport.
package workflow

import (
	"fmt"
	"time"

	"hrdocflow/internal/domain/entity"
)

// EventType names a workflow trigger.
type EventType string

const (
	EventSaveDraft        EventType = "SAVE_DRAFT"
	EventSendForReview    EventType = "SEND_FOR_REVIEW"
	EventReviewerApprove  EventType = "REVIEWER_APPROVE"
	EventReviewerReject   EventType = "REVIEWER_REJECT"
	EventAttachSignedCopy EventType = "ATTACH_SIGNED_COPY"
	EventFinalApprove     EventType = "FINAL_APPROVE"
	EventDelete           EventType = "DELETE"
)

// Event is one actor-initiated trigger against a document.
type Event struct {
	Type    EventType
	ActorID string
	// ActorPositionID is the position the actor currently holds, used for
	// reviewer matching. May be empty.
	ActorPositionID string
	// SignedDocURL carries the uploaded artifact URL on ATTACH_SIGNED_COPY.
	SignedDocURL string
	Now          time.Time
}

// EffectType names a side effect a transition asks its caller to perform.
type EffectType string

const (
	// EffectActivity appends an activity record.
	EffectActivity EffectType = "ACTIVITY"
	// EffectEmployeeRelease enqueues the employee lifecycle update after a
	// release document is finally approved. Best-effort by contract: it must
	// never fail or roll back the approval itself.
	EffectEmployeeRelease EffectType = "EMPLOYEE_RELEASE"
	// EffectDelete removes the document permanently.
	EffectDelete EffectType = "DELETE"
)

// Effect is one side effect emitted by a transition.
type Effect struct {
	Type     EffectType
	Activity *entity.Activity
}

// Outcome describes what a transition changed: the new status, the full
// approvalStatus map after mutation, and the effects to run. Status and
// approval mutations are intended to be persisted as one write.
type Outcome struct {
	Status         entity.DocumentStatus
	ApprovalStatus map[string]entity.ApprovalEntry
	StatusChanged  bool
	Effects        []Effect
}

// Apply runs one event against a document and returns the outcome. The
// document is not mutated. Guard failures come back as domain errors.
func Apply(doc *entity.Document, ev Event) (*Outcome, error) {
	status := doc.Status.Normalize()
	switch ev.Type {
	case EventSaveDraft:
		return saveDraft(doc, status, ev)
	case EventSendForReview:
		return sendForReview(doc, status, ev)
	case EventReviewerApprove:
		return reviewerApprove(doc, status, ev)
	case EventReviewerReject:
		return reviewerReject(doc, status, ev)
	case EventAttachSignedCopy:
		return attachSignedCopy(doc, status, ev)
	case EventFinalApprove:
		return finalApprove(doc, status, ev)
	case EventDelete:
		return deleteDocument(doc, status, ev)
	default:
		return nil, fmt.Errorf("unknown workflow event %q", ev.Type)
	}
}

// saveDraft guards edits. Content may change in DRAFT and IN_REVIEW; once a
// document reaches REVIEWED it is frozen.
func saveDraft(doc *entity.Document, status entity.DocumentStatus, _ Event) (*Outcome, error) {
	if status != entity.StatusDraft && status != entity.StatusInReview {
		return nil, fmt.Errorf("save draft from %s: %w", status, entity.ErrInvalidTransition)
	}
	return &Outcome{
		Status:         status,
		ApprovalStatus: cloneApprovals(doc.ApprovalStatus),
	}, nil
}

func sendForReview(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusDraft {
		return nil, fmt.Errorf("send for review from %s: %w", status, entity.ErrInvalidTransition)
	}

	// Review explicitly not required: skip straight to REVIEWED so the
	// original can be uploaded without peer sign-off.
	if !doc.IsReviewRequired {
		return &Outcome{
			Status:         entity.StatusReviewed,
			ApprovalStatus: map[string]entity.ApprovalEntry{},
			StatusChanged:  true,
			Effects: []Effect{statusActivity(doc.ID, ev,
				"Review skipped, document moved to REVIEWED")},
		}, nil
	}

	if len(doc.Reviewers) == 0 {
		return nil, entity.ErrReviewersRequired
	}

	approvals := make(map[string]entity.ApprovalEntry, len(doc.Reviewers))
	for _, r := range doc.Reviewers {
		approvals[r] = entity.ApprovalEntry{Status: entity.ApprovalPending, UpdatedAt: ev.Now}
	}

	return &Outcome{
		Status:         entity.StatusInReview,
		ApprovalStatus: approvals,
		StatusChanged:  true,
		Effects: []Effect{statusActivity(doc.ID, ev,
			fmt.Sprintf("Sent for review to %d reviewer(s)", len(doc.Reviewers)))},
	}, nil
}

// FindApprovalKey resolves which approvalStatus key an actor's decision lands
// under. Reviewer slots are conceptually positions, but the occupant of a
// position changes, so a raw user id is accepted as a fallback. When neither
// matches, the actor id itself is returned so no decision is silently dropped.
func FindApprovalKey(doc *entity.Document, actorID, actorPositionID string) string {
	if actorPositionID != "" && doc.HasReviewer(actorPositionID) {
		return actorPositionID
	}
	return actorID
}

func reviewerApprove(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusInReview {
		return nil, fmt.Errorf("approve from %s: %w", status, entity.ErrInvalidTransition)
	}

	key := FindApprovalKey(doc, ev.ActorID, ev.ActorPositionID)
	if entry, ok := doc.ApprovalStatus[key]; ok && entry.Status == entity.ApprovalApproved {
		return nil, entity.ErrAlreadyApproved
	}

	approvals := cloneApprovals(doc.ApprovalStatus)
	approvals[key] = entity.ApprovalEntry{
		Status:    entity.ApprovalApproved,
		ActorID:   ev.ActorID,
		UpdatedAt: ev.Now,
	}

	out := &Outcome{
		Status:         entity.StatusInReview,
		ApprovalStatus: approvals,
		Effects: []Effect{{
			Type: EffectActivity,
			Activity: &entity.Activity{
				SubjectID: doc.ID,
				Type:      entity.ActivityApprove,
				ActorID:   ev.ActorID,
				Content:   "Reviewer approved",
				CreatedAt: ev.Now,
			},
		}},
	}

	if allApproved(doc.Reviewers, approvals) {
		out.Status = entity.StatusReviewed
		out.StatusChanged = true
		out.Effects = append(out.Effects, statusActivity(doc.ID, ev,
			"All reviewers approved, document moved to REVIEWED"))
	}
	return out, nil
}

// reviewerReject records the rejection and reverts the document to DRAFT so
// the author can edit and resubmit. The REJECTED entry is kept for the
// rejection banner shown on the draft.
func reviewerReject(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusInReview {
		return nil, fmt.Errorf("reject from %s: %w", status, entity.ErrInvalidTransition)
	}

	key := FindApprovalKey(doc, ev.ActorID, ev.ActorPositionID)
	approvals := cloneApprovals(doc.ApprovalStatus)
	approvals[key] = entity.ApprovalEntry{
		Status:    entity.ApprovalRejected,
		ActorID:   ev.ActorID,
		UpdatedAt: ev.Now,
	}

	return &Outcome{
		Status:         entity.StatusDraft,
		ApprovalStatus: approvals,
		StatusChanged:  true,
		Effects: []Effect{
			{
				Type: EffectActivity,
				Activity: &entity.Activity{
					SubjectID: doc.ID,
					Type:      entity.ActivityReject,
					ActorID:   ev.ActorID,
					Content:   "Reviewer rejected, document returned to DRAFT",
					CreatedAt: ev.Now,
				},
			},
		},
	}, nil
}

func attachSignedCopy(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusReviewed {
		return nil, fmt.Errorf("attach signed copy from %s: %w", status, entity.ErrInvalidTransition)
	}
	if ev.SignedDocURL == "" {
		return nil, fmt.Errorf("%w: empty signed copy url", entity.ErrValidation)
	}
	// Attaching does not change status; Final Approve does.
	return &Outcome{
		Status:         status,
		ApprovalStatus: cloneApprovals(doc.ApprovalStatus),
		Effects: []Effect{{
			Type: EffectActivity,
			Activity: &entity.Activity{
				SubjectID: doc.ID,
				Type:      entity.ActivitySystem,
				ActorID:   ev.ActorID,
				Content:   "Signed copy attached",
				CreatedAt: ev.Now,
			},
		}},
	}, nil
}

func finalApprove(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusReviewed {
		return nil, fmt.Errorf("final approve from %s: %w", status, entity.ErrInvalidTransition)
	}
	if doc.SignedDocURL == "" {
		return nil, entity.ErrSignedCopyRequired
	}

	out := &Outcome{
		Status:         entity.StatusApproved,
		ApprovalStatus: cloneApprovals(doc.ApprovalStatus),
		StatusChanged:  true,
		Effects:        []Effect{statusActivity(doc.ID, ev, "Document approved")},
	}
	if doc.ActionType == entity.ActionTypeRelease && doc.EmployeeID != "" {
		out.Effects = append(out.Effects, Effect{Type: EffectEmployeeRelease})
	}
	return out, nil
}

func deleteDocument(doc *entity.Document, status entity.DocumentStatus, ev Event) (*Outcome, error) {
	if status != entity.StatusDraft {
		return nil, fmt.Errorf("delete from %s: %w", status, entity.ErrInvalidTransition)
	}
	return &Outcome{
		Status:         status,
		ApprovalStatus: cloneApprovals(doc.ApprovalStatus),
		Effects:        []Effect{{Type: EffectDelete}},
	}, nil
}

func statusActivity(docID string, ev Event, content string) Effect {
	return Effect{
		Type: EffectActivity,
		Activity: &entity.Activity{
			SubjectID: docID,
			Type:      entity.ActivitySystem,
			ActorID:   entity.SystemActorID,
			Content:   content,
			CreatedAt: ev.Now,
		},
	}
}

func allApproved(reviewers []string, approvals map[string]entity.ApprovalEntry) bool {
	if len(reviewers) == 0 {
		return false
	}
	for _, r := range reviewers {
		entry, ok := approvals[r]
		if !ok || entry.Status != entity.ApprovalApproved {
			return false
		}
	}
	return true
}

func cloneApprovals(in map[string]entity.ApprovalEntry) map[string]entity.ApprovalEntry {
	out := make(map[string]entity.ApprovalEntry, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
