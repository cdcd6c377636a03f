package review

import (
	"strings"
	"testing"

	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/state"
)

func TestBuildReport_AutoApprove(t *testing.T) {
	s := state.New("o", "r", 1)
	s.Decision = &domain.Decision{
		Outcome: domain.OutcomeAutoApprove,
		Metrics: passingMetrics(),
	}

	r := BuildReport(s, DefaultThresholds)

	if r.Recommendation != "AUTO APPROVE" {
		t.Errorf("expected AUTO APPROVE, got %q", r.Recommendation)
	}
	if r.Priority != "MEDIUM" {
		t.Errorf("expected MEDIUM priority, got %q", r.Priority)
	}
	if len(r.ActionItems) != 1 || r.ActionItems[0] != "Ready for merge" {
		t.Errorf("unexpected action items: %v", r.ActionItems)
	}
	if r.KeyFindings[0] != "All quality thresholds met" {
		t.Errorf("unexpected key findings: %v", r.KeyFindings)
	}
	if len(r.ApprovalCriteria) != 1 || r.ApprovalCriteria[0] != "All quality thresholds are met" {
		t.Errorf("unexpected criteria: %v", r.ApprovalCriteria)
	}
}

func TestBuildReport_Escalation(t *testing.T) {
	s := state.New("o", "r", 1)
	s.Security = []domain.SecurityResult{{
		Score:           4.0,
		Vulnerabilities: []domain.Vulnerability{{Severity: domain.SeverityHigh}, {Severity: domain.SeverityLow}},
		SeverityCounts:  map[domain.Severity]int{domain.SeverityHigh: 1, domain.SeverityLow: 1},
	}}
	s.Decision = &domain.Decision{
		Outcome:  domain.OutcomeCriticalEscalation,
		Critical: true,
		Reason:   "Security issues: score 4.0/8.0 or 1 high severity vulnerabilities",
		Metrics:  domain.Metrics{SecurityScore: 4.0, HighSeverityIssues: 1},
	}

	r := BuildReport(s, DefaultThresholds)

	if r.Priority != "HIGH" {
		t.Errorf("expected HIGH priority, got %q", r.Priority)
	}
	if r.KeyFindings[0] != s.Decision.Reason {
		t.Errorf("first finding should be the decision reason: %v", r.KeyFindings)
	}
	found := false
	for _, f := range r.KeyFindings {
		if strings.Contains(f, "2 security vulnerabilities") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected vulnerability count finding: %v", r.KeyFindings)
	}
	if r.ActionItems[0] != "Address critical security vulnerabilities immediately" {
		t.Errorf("unexpected action items: %v", r.ActionItems)
	}
}

func TestBuildReport_HumanReviewActionItems(t *testing.T) {
	s := state.New("o", "r", 1)
	m := passingMetrics()
	m.QualityScore = 5.0
	m.Coverage = 40.0
	s.Decision = &domain.Decision{
		Outcome:  domain.OutcomeHumanReview,
		Critical: true,
		Metrics:  m,
	}

	r := BuildReport(s, DefaultThresholds)

	if len(r.ActionItems) != 2 {
		t.Fatalf("expected 2 action items, got %v", r.ActionItems)
	}
	if !strings.Contains(r.ActionItems[0], "linter") || !strings.Contains(r.ActionItems[1], "coverage") {
		t.Errorf("unexpected action items: %v", r.ActionItems)
	}
}

func TestBuildReport_CriteriaListFailingThresholds(t *testing.T) {
	s := state.New("o", "r", 1)
	s.Decision = &domain.Decision{
		Outcome:  domain.OutcomeCriticalEscalation,
		Critical: true,
		Metrics: domain.Metrics{
			SecurityScore: 4.0, HighSeverityIssues: 2,
			QualityScore: 5.0, Coverage: 40.0, AIScore: 0.3, DocumentationCoverage: 20.0,
		},
	}

	r := BuildReport(s, DefaultThresholds)

	if len(r.ApprovalCriteria) != 6 {
		t.Errorf("expected all 6 criteria, got %v", r.ApprovalCriteria)
	}
}
