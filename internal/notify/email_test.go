package notify

import (
	"strings"
	"testing"

	"github.com/richhaase/reviewflow/internal/domain"
)

func TestEnabled(t *testing.T) {
	m := NewMailer("a@example.com", "secret", "b@example.com", "smtp.example.com", 587)
	if !m.Enabled() {
		t.Error("fully configured mailer should be enabled")
	}

	for _, missing := range []*Mailer{
		NewMailer("", "secret", "b@example.com", "smtp.example.com", 587),
		NewMailer("a@example.com", "", "b@example.com", "smtp.example.com", 587),
		NewMailer("a@example.com", "secret", "", "smtp.example.com", 587),
	} {
		if missing.Enabled() {
			t.Errorf("mailer with missing field should be disabled: %+v", missing)
		}
	}
}

func TestSend_DisabledReturnsFalse(t *testing.T) {
	m := NewMailer("", "", "", "smtp.example.com", 587)
	if m.Send("subject", "body") {
		t.Error("unconfigured mailer must report false without dialing")
	}
}

func TestStartedBody(t *testing.T) {
	pr := domain.PRMetadata{Number: 42, Title: "Add retry logic", Author: "octocat"}

	body := StartedBody(pr, 3)

	for _, want := range []string{
		"CODE REVIEW STARTED",
		"PR #42: Add retry logic",
		"Author: octocat",
		"Files to Review: 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestReportBody(t *testing.T) {
	pr := domain.PRMetadata{Number: 7, Title: "Fix parser", Author: "dev"}
	report := domain.Report{
		Outcome:        domain.OutcomeHumanReview,
		Recommendation: "HUMAN REVIEW",
		Priority:       "MEDIUM",
		Metrics: domain.Metrics{
			SecurityScore:         9.0,
			QualityScore:          6.5,
			Coverage:              82.0,
			AIScore:               0.9,
			DocumentationCoverage: 75.0,
		},
		KeyFindings: []string{"Quality score too low: 6.50 < 7.00"},
		ActionItems: []string{"Address code quality issues"},
	}

	body := ReportBody("REVIEW COMPLETE", pr, report)

	for _, want := range []string{
		"REVIEW COMPLETE",
		"PR #7: Fix parser",
		"FINAL STATUS: HUMAN REVIEW",
		"Security Score: 9.00/10.0",
		"Lint Score: 6.50/10.0",
		"Test Coverage: 82.0%",
		"AI Review Score: 0.90/1.0",
		"Documentation: 75.0%",
		"KEY FINDINGS:",
		"- Quality score too low: 6.50 < 7.00",
		"ACTION ITEMS:",
		"- Address code quality issues",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestReportBody_OmitsEmptySections(t *testing.T) {
	body := ReportBody("REVIEW COMPLETE", domain.PRMetadata{Number: 1}, domain.Report{
		Recommendation: "AUTO APPROVE",
	})

	if strings.Contains(body, "KEY FINDINGS") || strings.Contains(body, "ACTION ITEMS") {
		t.Errorf("empty sections should be omitted:\n%s", body)
	}
}
