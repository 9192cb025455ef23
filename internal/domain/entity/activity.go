package entity

import "time"

// ActivityType classifies an entry in a subject's activity log.
type ActivityType string

const (
	ActivityStageChange ActivityType = "STAGE_CHANGE"
	ActivityNote        ActivityType = "NOTE"
	ActivityMessage     ActivityType = "MESSAGE"
	ActivityScorecard   ActivityType = "SCORECARD"
	ActivitySystem      ActivityType = "SYSTEM"
	ActivityApprove     ActivityType = "APPROVE"
	ActivityReject      ActivityType = "REJECT"
)

// Activity is one append-only log record attached to a document or candidate.
// Canonical stored order is CreatedAt ascending; feed-style consumers reverse
// on their side.
type Activity struct {
	ID        string            `firestore:"-" json:"id"`
	SubjectID string            `firestore:"subjectId" json:"subject_id"`
	Type      ActivityType      `firestore:"type" json:"type"`
	ActorID   string            `firestore:"actorId,omitempty" json:"actor_id,omitempty"`
	Content   string            `firestore:"content" json:"content"`
	Data      map[string]string `firestore:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time         `firestore:"createdAt" json:"created_at"`
}

// SystemActorID is the actor recorded on system-authored activities.
const SystemActorID = "system"
