package analyzer

import (
	"context"
	"strings"
	"testing"
)

const sampleModule = `"""Utilities."""

def fetch(url):
    return url

def _helper():
    pass

class Client:
    def __init__(self):
        pass

def main():
    pass
`

func TestCoverage_CountsTestableItems(t *testing.T) {
	r := NewCoverage().Analyze(context.Background(), sampleModule, "client.py")

	// fetch, main, __init__ is private, _helper is private; Client counts.
	// Testable: fetch + main + Client = 3
	if r.TestableItems != 3 {
		t.Errorf("expected 3 testable items, got %d", r.TestableItems)
	}
	if r.CoveragePercent != baselineCoverage {
		t.Errorf("expected baseline %.1f, got %v", baselineCoverage, r.CoveragePercent)
	}
}

func TestCoverage_MissingTestsSkipMain(t *testing.T) {
	r := NewCoverage().Analyze(context.Background(), sampleModule, "client.py")

	for _, m := range r.MissingTests {
		if strings.Contains(m, "'main'") {
			t.Errorf("main should not be flagged: %v", r.MissingTests)
		}
	}

	foundFetch, foundClient := false, false
	for _, m := range r.MissingTests {
		if strings.Contains(m, "Function 'fetch' at line 3") {
			foundFetch = true
		}
		if strings.Contains(m, "Class 'Client' at line 9") {
			foundClient = true
		}
	}
	if !foundFetch || !foundClient {
		t.Errorf("expected fetch and Client flagged with line numbers: %v", r.MissingTests)
	}
}

func TestCoverage_MissingTestsCapped(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString("def fn")
		sb.WriteByte(byte('a' + i))
		sb.WriteString("():\n    pass\n")
	}

	r := NewCoverage().Analyze(context.Background(), sb.String(), "many.py")

	if len(r.MissingTests) != maxMissingTests {
		t.Errorf("expected missing list capped at %d, got %d", maxMissingTests, len(r.MissingTests))
	}
	if r.TestableItems != 10 {
		t.Errorf("expected 10 testable items, got %d", r.TestableItems)
	}
}

func TestCoverage_EmptySource(t *testing.T) {
	r := NewCoverage().Analyze(context.Background(), "# nothing here\n", "empty.py")

	if r.TestableItems != 0 {
		t.Errorf("expected 0 testable items, got %d", r.TestableItems)
	}
	if len(r.MissingTests) != 0 {
		t.Errorf("expected no missing tests, got %v", r.MissingTests)
	}
}
