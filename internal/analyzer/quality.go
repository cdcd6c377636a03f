package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/richhaase/reviewflow/internal/domain"
)

// defaultQualityScore is reported when the linter is unavailable or fails.
const defaultQualityScore = 5.0

// maxReportedIssues caps the per-file issue list carried in the result.
const maxReportedIssues = 10

// Quality analyzes code quality by invoking pylint on a temp copy of the file.
type Quality struct {
	timeout time.Duration
}

// NewQuality creates a quality analyzer. The timeout bounds each pylint run.
func NewQuality(timeout time.Duration) *Quality {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Quality{timeout: timeout}
}

// pylintIssue is the subset of pylint's JSON output the pipeline keeps.
type pylintIssue struct {
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// Analyze runs pylint over the source and extracts score and issues.
// Missing tool, timeout, or parse failure all degrade to a default record.
func (a *Quality) Analyze(ctx context.Context, source, filename string) domain.QualityResult {
	tmp, err := os.CreateTemp("", "reviewflow-*.py")
	if err != nil {
		return a.defaultResult(filename, fmt.Sprintf("temp file: %v", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(source); err != nil {
		tmp.Close()
		return a.defaultResult(filename, fmt.Sprintf("temp file: %v", err))
	}
	tmp.Close()

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "pylint", tmp.Name(), "--output-format=json")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// pylint exits non-zero whenever it finds issues, so the error itself is
	// not diagnostic; only a missing binary or a timeout matters.
	runErr := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return a.defaultResult(filename, "pylint timeout")
	}
	if runErr != nil && stdout.Len() == 0 {
		if _, lookErr := exec.LookPath("pylint"); lookErr != nil {
			return a.defaultResult(filename, "pylint not available")
		}
	}

	var raw []pylintIssue
	if stdout.Len() > 0 {
		if err := json.Unmarshal([]byte(stdout.String()), &raw); err != nil {
			return a.defaultResult(filename, fmt.Sprintf("parse pylint output: %v", err))
		}
	}

	issues := make([]domain.LintIssue, 0, len(raw))
	for _, i := range raw {
		issues = append(issues, domain.LintIssue(i))
	}

	score := extractScore(stderr.String())
	categories := categorizeIssues(issues)

	kept := issues
	if len(kept) > maxReportedIssues {
		kept = kept[:maxReportedIssues]
	}

	return domain.QualityResult{
		Filename:         filename,
		Score:            score,
		TotalIssues:      len(issues),
		Issues:           kept,
		IssuesByCategory: categories,
		Recommendations:  qualityRecommendations(categories, score),
	}
}

// extractScore pulls the score out of pylint's "rated at 7.50/10" line.
func extractScore(output string) float64 {
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "rated at")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("rated at"):])
		if slash := strings.Index(rest, "/"); slash > 0 {
			if score, err := strconv.ParseFloat(strings.TrimSpace(rest[:slash]), 64); err == nil {
				return score
			}
		}
	}
	return defaultQualityScore
}

var issueCategories = []string{"convention", "refactor", "warning", "error", "fatal"}

func categorizeIssues(issues []domain.LintIssue) map[string]int {
	categories := make(map[string]int, len(issueCategories))
	for _, c := range issueCategories {
		categories[c] = 0
	}
	for _, issue := range issues {
		t := strings.ToLower(issue.Type)
		if _, ok := categories[t]; ok {
			categories[t]++
		}
	}
	return categories
}

func qualityRecommendations(categories map[string]int, score float64) []string {
	var recs []string

	if score < 5.0 {
		recs = append(recs, "Critical: Code quality is very low - major refactoring needed")
	} else if score < 7.0 {
		recs = append(recs, "Code quality below threshold - address issues before merge")
	}

	if categories["error"] > 0 {
		recs = append(recs, fmt.Sprintf("Fix %d error(s) immediately", categories["error"]))
	}
	if categories["warning"] > 5 {
		recs = append(recs, fmt.Sprintf("Address %d warning(s)", categories["warning"]))
	}
	if categories["convention"] > 10 {
		recs = append(recs, "Improve code style and naming conventions")
	}
	if categories["refactor"] > 5 {
		recs = append(recs, "Consider refactoring complex code sections")
	}

	if len(recs) == 0 {
		recs = append(recs, "Code quality is good")
	}
	return recs
}

func (a *Quality) defaultResult(filename, reason string) domain.QualityResult {
	return domain.QualityResult{
		Filename:         filename,
		Score:            defaultQualityScore,
		IssuesByCategory: categorizeIssues(nil),
		Recommendations:  []string{fmt.Sprintf("Lint analysis unavailable: %s", reason)},
	}
}
