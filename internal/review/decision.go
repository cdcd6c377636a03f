package review

import (
	"fmt"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/state"
)

// Thresholds are the configured quality floors the decision engine applies.
// Each is independently configurable; zero-value structs should not be used
// directly — start from DefaultThresholds.
type Thresholds struct {
	Security      float64 // mean security score floor, 0–10 scale
	Quality       float64 // mean lint score floor, 0–10 scale
	Coverage      float64 // mean test coverage floor, percent
	AIConfidence  float64 // mean AI review score floor, 0–1 scale
	Documentation float64 // mean documentation coverage floor, percent
}

// DefaultThresholds are the built-in quality floors.
var DefaultThresholds = Thresholds{
	Security:      8.0,
	Quality:       7.0,
	Coverage:      80.0,
	AIConfidence:  0.8,
	Documentation: 70.0,
}

// ComputeMetrics derives the decision inputs from the accumulated result
// lists: the arithmetic mean of each analysis's primary metric, plus the
// total HIGH-severity vulnerability count. Empty lists leave their metric at
// zero and are expected to be interpreted alongside the coordinator summary.
func ComputeMetrics(s state.ReviewState) domain.Metrics {
	var m domain.Metrics

	if len(s.Security) > 0 {
		var total float64
		for _, r := range s.Security {
			total += r.Score
			m.HighSeverityIssues += r.HighSeverityCount()
		}
		m.SecurityScore = total / float64(len(s.Security))
	}

	if len(s.Quality) > 0 {
		var total float64
		for _, r := range s.Quality {
			total += r.Score
		}
		m.QualityScore = total / float64(len(s.Quality))
	}

	if len(s.Coverage) > 0 {
		var total float64
		for _, r := range s.Coverage {
			total += r.CoveragePercent
		}
		m.Coverage = total / float64(len(s.Coverage))
	}

	if len(s.AIReviews) > 0 {
		var total float64
		for _, r := range s.AIReviews {
			total += r.OverallScore
		}
		m.AIScore = total / float64(len(s.AIReviews))
	}

	if len(s.Documentation) > 0 {
		var total float64
		for _, r := range s.Documentation {
			total += r.Coverage
		}
		m.DocumentationCoverage = total / float64(len(s.Documentation))
	}

	return m
}

// Decide classifies a metrics snapshot against the thresholds. It is a pure
// function: identical inputs always produce identical decisions.
//
// Rules are evaluated in strict priority order, first match wins. Security
// trumps general quality, which trumps documentation:
//
//  1. critical_escalation — mean security score below floor, or any
//     HIGH-severity vulnerabilities.
//  2. human_review — mean quality, coverage, or AI score below floor; the
//     reason cites only the first failing sub-condition in that order.
//  3. documentation_review — mean documentation coverage below floor.
//  4. auto_approve — everything else.
func Decide(m domain.Metrics, t Thresholds) domain.Decision {
	d := domain.Decision{
		Outcome: domain.OutcomeAutoApprove,
		Metrics: m,
	}

	switch {
	case m.SecurityScore < t.Security || m.HighSeverityIssues > 0:
		d.Outcome = domain.OutcomeCriticalEscalation
		d.Reason = fmt.Sprintf("Security issues: score %.1f/%.1f or %d high severity vulnerabilities",
			m.SecurityScore, t.Security, m.HighSeverityIssues)

	case m.QualityScore < t.Quality:
		d.Outcome = domain.OutcomeHumanReview
		d.Reason = fmt.Sprintf("Quality score too low: %.2f < %.2f", m.QualityScore, t.Quality)

	case m.Coverage < t.Coverage:
		d.Outcome = domain.OutcomeHumanReview
		d.Reason = fmt.Sprintf("Test coverage too low: %.1f%% < %.1f%%", m.Coverage, t.Coverage)

	case m.AIScore < t.AIConfidence:
		d.Outcome = domain.OutcomeHumanReview
		d.Reason = fmt.Sprintf("AI confidence too low: %.2f < %.2f", m.AIScore, t.AIConfidence)

	case m.DocumentationCoverage < t.Documentation:
		d.Outcome = domain.OutcomeDocumentationReview
		d.Reason = fmt.Sprintf("Documentation coverage too low: %.1f%% < %.1f%%",
			m.DocumentationCoverage, t.Documentation)
	}

	d.Critical = d.Outcome.Critical()
	return d
}
