package review

import (
	"fmt"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/state"
)

// BuildReport renders the decision and accumulated results into the terminal
// presentation structure: key findings, action items, and the criteria a
// non-approved PR must meet.
func BuildReport(s state.ReviewState, t Thresholds) domain.Report {
	decision := domain.Decision{Outcome: domain.OutcomeHumanReview}
	if s.Decision != nil {
		decision = *s.Decision
	}

	priority := "MEDIUM"
	if decision.Critical {
		priority = "HIGH"
	}

	return domain.Report{
		Outcome:          decision.Outcome,
		Recommendation:   decision.Outcome.Recommendation(),
		Priority:         priority,
		Metrics:          decision.Metrics,
		KeyFindings:      keyFindings(s, decision.Reason),
		ActionItems:      actionItems(decision, t),
		ApprovalCriteria: approvalCriteria(decision.Metrics, t),
	}
}

func keyFindings(s state.ReviewState, reason string) []string {
	findings := []string{"All quality thresholds met"}
	if reason != "" {
		findings = []string{reason}
	}

	var totalVulns int
	for _, r := range s.Security {
		totalVulns += len(r.Vulnerabilities)
	}
	if totalVulns > 0 {
		findings = append(findings, fmt.Sprintf("Found %d security vulnerabilities", totalVulns))
	}

	var totalIssues int
	for _, r := range s.Quality {
		totalIssues += r.TotalIssues
	}
	if totalIssues > 0 {
		findings = append(findings, fmt.Sprintf("Found %d code quality issues", totalIssues))
	}

	return findings
}

func actionItems(d domain.Decision, t Thresholds) []string {
	switch d.Outcome {
	case domain.OutcomeCriticalEscalation:
		return []string{
			"Address critical security vulnerabilities immediately",
			"Follow security best practices",
		}
	case domain.OutcomeHumanReview:
		var items []string
		if d.Metrics.QualityScore < t.Quality {
			items = append(items, "Address code quality issues flagged by the linter")
		}
		if d.Metrics.Coverage < t.Coverage {
			items = append(items, "Improve test coverage")
		}
		if d.Metrics.AIScore < t.AIConfidence {
			items = append(items, "Review AI suggestions for improvements")
		}
		return items
	case domain.OutcomeDocumentationReview:
		return []string{"Add missing documentation to functions and classes"}
	default:
		return []string{"Ready for merge"}
	}
}

func approvalCriteria(m domain.Metrics, t Thresholds) []string {
	var criteria []string

	if m.SecurityScore < t.Security {
		criteria = append(criteria, fmt.Sprintf("Security score must be at least %.1f/10.0", t.Security))
	}
	if m.HighSeverityIssues > 0 {
		criteria = append(criteria, "All high-severity vulnerabilities must be addressed")
	}
	if m.QualityScore < t.Quality {
		criteria = append(criteria, fmt.Sprintf("Lint score must be at least %.1f/10.0", t.Quality))
	}
	if m.Coverage < t.Coverage {
		criteria = append(criteria, fmt.Sprintf("Test coverage must be at least %.1f%%", t.Coverage))
	}
	if m.AIScore < t.AIConfidence {
		criteria = append(criteria, "AI-identified issues must be resolved")
	}
	if m.DocumentationCoverage < t.Documentation {
		criteria = append(criteria, fmt.Sprintf("Documentation coverage must be at least %.1f%%", t.Documentation))
	}

	if len(criteria) == 0 {
		criteria = append(criteria, "All quality thresholds are met")
	}
	return criteria
}
