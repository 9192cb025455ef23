package entity

import "time"

// VacancyStatus is the posting state of a vacancy.
type VacancyStatus string

const (
	VacancyOpen   VacancyStatus = "open"
	VacancyOnHold VacancyStatus = "on_hold"
	VacancyClosed VacancyStatus = "closed"
)

// Vacancy is an open position being recruited for.
type Vacancy struct {
	ID           string        `firestore:"-" json:"id"`
	Title        string        `firestore:"title" json:"title"`
	DepartmentID string        `firestore:"departmentId,omitempty" json:"department_id,omitempty"`
	PositionID   string        `firestore:"positionId,omitempty" json:"position_id,omitempty"`
	Status       VacancyStatus `firestore:"status" json:"status"`
	Openings     int           `firestore:"openings" json:"openings"`
	CreatedAt    time.Time     `firestore:"createdAt" json:"created_at"`
	UpdatedAt    time.Time     `firestore:"updatedAt" json:"updated_at"`
}

// CandidateStage is a pipeline stage in the recruitment funnel.
type CandidateStage string

const (
	StageApplied   CandidateStage = "applied"
	StageScreen    CandidateStage = "screen"
	StageInterview CandidateStage = "interview"
	StageOffer     CandidateStage = "offer"
	StageHired     CandidateStage = "hired"
	StageRejected  CandidateStage = "rejected"
)

// KnownCandidateStages lists the valid pipeline stages.
var KnownCandidateStages = []CandidateStage{
	StageApplied, StageScreen, StageInterview, StageOffer, StageHired, StageRejected,
}

// Valid reports whether s is one of the known pipeline stages.
func (s CandidateStage) Valid() bool {
	for _, k := range KnownCandidateStages {
		if s == k {
			return true
		}
	}
	return false
}

// Candidate is an applicant moving through a vacancy's pipeline.
type Candidate struct {
	ID        string         `firestore:"-" json:"id"`
	VacancyID string         `firestore:"vacancyId" json:"vacancy_id"`
	Name      string         `firestore:"name" json:"name"`
	Email     string         `firestore:"email" json:"email"`
	Phone     string         `firestore:"phone,omitempty" json:"phone,omitempty"`
	Stage     CandidateStage `firestore:"stage" json:"stage"`
	ResumeURL string         `firestore:"resumeUrl,omitempty" json:"resume_url,omitempty"`
	CreatedAt time.Time      `firestore:"createdAt" json:"created_at"`
	UpdatedAt time.Time      `firestore:"updatedAt" json:"updated_at"`
}

// Scorecard is an interviewer's structured evaluation of a candidate. It is
// persisted as the data payload of a SCORECARD activity rather than as its
// own aggregate.
type Scorecard struct {
	InterviewerID  string `json:"interviewer_id"`
	Recommendation string `json:"recommendation"` // strong_yes, yes, no, strong_no
	Notes          string `json:"notes,omitempty"`
	Score          int    `json:"score,omitempty"`
}
