// Package domain provides core types for the review pipeline.
package domain

import "strings"

// Outcome is the decision engine's terminal classification of a review.
type Outcome string

const (
	// OutcomeAutoApprove indicates all quality thresholds were met.
	OutcomeAutoApprove Outcome = "auto_approve"
	// OutcomeHumanReview indicates quality, coverage, or AI confidence fell short.
	OutcomeHumanReview Outcome = "human_review"
	// OutcomeCriticalEscalation indicates security issues requiring immediate attention.
	OutcomeCriticalEscalation Outcome = "critical_escalation"
	// OutcomeDocumentationReview indicates only documentation coverage fell short.
	OutcomeDocumentationReview Outcome = "documentation_review"
)

// Outcomes lists every valid outcome.
var Outcomes = []Outcome{
	OutcomeAutoApprove,
	OutcomeHumanReview,
	OutcomeCriticalEscalation,
	OutcomeDocumentationReview,
}

// Valid reports whether o is one of the defined outcomes.
func (o Outcome) Valid() bool {
	for _, candidate := range Outcomes {
		if o == candidate {
			return true
		}
	}
	return false
}

// Critical reports whether the outcome requires human attention.
func (o Outcome) Critical() bool {
	return o != OutcomeAutoApprove
}

// Recommendation returns the outcome formatted for human-facing reports,
// e.g. "CRITICAL ESCALATION".
func (o Outcome) Recommendation() string {
	return strings.ToUpper(strings.ReplaceAll(string(o), "_", " "))
}
