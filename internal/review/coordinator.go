// Package review implements the coordination and decision core: aggregation
// of per-file analysis results, the threshold classifier, and the report
// builder. Everything here is pure — no I/O, no hidden state.
package review

import (
	"math"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/state"
)

// Coordinate aggregates the five result lists into a summary. It makes no
// decision and emits no routing signal. Any subset of the lists may be
// empty; an empty list is recorded as not-completed and contributes no mean.
func Coordinate(s state.ReviewState) domain.Summary {
	summary := domain.Summary{
		TotalFiles: len(s.Files),
	}

	if len(s.Security) > 0 {
		summary.AnalysesCompleted = append(summary.AnalysesCompleted, "security")
		var total float64
		for _, r := range s.Security {
			total += r.Score
		}
		summary.AvgSecurityScore = round2(total / float64(len(s.Security)))
	}

	if len(s.Quality) > 0 {
		summary.AnalysesCompleted = append(summary.AnalysesCompleted, "quality")
		var total float64
		for _, r := range s.Quality {
			total += r.Score
		}
		summary.AvgQualityScore = round2(total / float64(len(s.Quality)))
	}

	if len(s.Coverage) > 0 {
		summary.AnalysesCompleted = append(summary.AnalysesCompleted, "coverage")
		var total float64
		for _, r := range s.Coverage {
			total += r.CoveragePercent
		}
		summary.AvgCoverage = round1(total / float64(len(s.Coverage)))
	}

	if len(s.AIReviews) > 0 {
		summary.AnalysesCompleted = append(summary.AnalysesCompleted, "ai_review")
		var total float64
		for _, r := range s.AIReviews {
			total += r.OverallScore
		}
		summary.AvgAIScore = round2(total / float64(len(s.AIReviews)))
	}

	if len(s.Documentation) > 0 {
		summary.AnalysesCompleted = append(summary.AnalysesCompleted, "documentation")
		var total float64
		for _, r := range s.Documentation {
			total += r.Coverage
		}
		summary.AvgDocumentation = round1(total / float64(len(s.Documentation)))
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
