package models

import "time"

// Outcome is the adjudication result of one analysis.
type Outcome string

const (
	OutcomePass    Outcome = "PASS"
	OutcomeFail    Outcome = "FAIL"
	OutcomeUnknown Outcome = "UNKNOWN"
)

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeUnknown:
		return true
	}
	return false
}

// Analysis is an immutable decision record owned by one user.
// ConfidenceScore is nil when the engine output carried no usable value.
type Analysis struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	PolicyFile      string    `db:"policy_file" json:"policy_file"`
	ClaimFile       string    `db:"claim_file" json:"claim_file"`
	BillsFile       string    `db:"bills_file" json:"bills_file"`
	DoctorNotesFile string    `db:"doctor_notes_file" json:"doctor_notes_file"`
	Decision        Outcome   `db:"decision" json:"decision"`
	Reasoning       string    `db:"reasoning" json:"reasoning"`
	ConfidenceScore *float64  `db:"confidence_score" json:"confidence_score"`
	AnalyzedAt      time.Time `db:"analyzed_at" json:"analyzed_at"`
}
