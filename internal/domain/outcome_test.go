package domain

import "testing"

func TestOutcome_Valid(t *testing.T) {
	for _, o := range Outcomes {
		if !o.Valid() {
			t.Errorf("expected %q to be valid", o)
		}
	}
	if Outcome("merge_immediately").Valid() {
		t.Error("expected unknown outcome to be invalid")
	}
}

func TestOutcome_Critical(t *testing.T) {
	if OutcomeAutoApprove.Critical() {
		t.Error("auto_approve should not be critical")
	}
	for _, o := range []Outcome{OutcomeHumanReview, OutcomeCriticalEscalation, OutcomeDocumentationReview} {
		if !o.Critical() {
			t.Errorf("%q should be critical", o)
		}
	}
}

func TestOutcome_Recommendation(t *testing.T) {
	if got := OutcomeCriticalEscalation.Recommendation(); got != "CRITICAL ESCALATION" {
		t.Errorf("expected CRITICAL ESCALATION, got %q", got)
	}
}

func TestSummary_Missing(t *testing.T) {
	s := Summary{AnalysesCompleted: []string{"security", "documentation"}}
	missing := s.Missing()
	want := []string{"quality", "coverage", "ai_review"}
	if len(missing) != len(want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d]: expected %q, got %q", i, want[i], missing[i])
		}
	}
}

func TestSecurityResult_HighSeverityCount(t *testing.T) {
	r := SecurityResult{SeverityCounts: map[Severity]int{SeverityHigh: 2, SeverityLow: 5}}
	if r.HighSeverityCount() != 2 {
		t.Errorf("expected 2, got %d", r.HighSeverityCount())
	}
	if (SecurityResult{}).HighSeverityCount() != 0 {
		t.Error("nil severity counts should report zero")
	}
}
