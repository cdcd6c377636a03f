// Package analyzer provides the five analysis adapters the pipeline fans out
// over. Every adapter maps (source text, filename) to a metrics record and
// never returns an error across that boundary — internal failures produce a
// degraded default record with a diagnostic recommendation instead.
package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/richhaase/reviewflow/internal/domain"
)

// securityPattern pairs a compiled source pattern with its severity and finding text.
type securityPattern struct {
	re          *regexp.Regexp
	severity    domain.Severity
	description string
}

// Score penalties per severity. Scores start at 10.0 and floor at 0.
const (
	highPenalty   = 2.0
	mediumPenalty = 1.0
	lowPenalty    = 0.5
)

var securityPatterns = []securityPattern{
	{regexp.MustCompile(`(?i)eval\s*\(`), domain.SeverityHigh, "Use of eval() - Code injection risk"},
	{regexp.MustCompile(`(?i)exec\s*\(`), domain.SeverityHigh, "Use of exec() - Code execution risk"},
	{regexp.MustCompile(`(?i)subprocess.*shell\s*=\s*True`), domain.SeverityHigh, "Shell injection vulnerability"},
	{regexp.MustCompile(`(?i)pickle\.loads?\s*\(`), domain.SeverityMedium, "Unsafe deserialization with pickle"},
	{regexp.MustCompile(`(?i)input\s*\(.*\)`), domain.SeverityLow, "Unvalidated user input"},
	{regexp.MustCompile(`(?i)open\s*\([^)]*['"]w['"]`), domain.SeverityMedium, "File write operations"},
	{regexp.MustCompile(`(?i)requests\..*verify\s*=\s*False`), domain.SeverityMedium, "SSL verification disabled"},
	{regexp.MustCompile(`(?i)password\s*=\s*['"][^'"]+['"]`), domain.SeverityHigh, "Hardcoded password"},
	{regexp.MustCompile(`(?i)api_key\s*=\s*['"][^'"]+['"]`), domain.SeverityHigh, "Hardcoded API key"},
	{regexp.MustCompile(`(?i)token\s*=\s*['"][^'"]+['"]`), domain.SeverityHigh, "Hardcoded token"},
	{regexp.MustCompile(`(?i)SECRET\s*=\s*['"][^'"]+['"]`), domain.SeverityHigh, "Hardcoded secret"},
	{regexp.MustCompile(`(?i)os\.system\s*\(`), domain.SeverityHigh, "Potential command injection with os.system"},
	{regexp.MustCompile(`(?i)yaml\.load\s*\([^)]*\)`), domain.SeverityMedium, "Unsafe YAML loading without safe_load"},
	{regexp.MustCompile(`(?i)json\.loads?\s*\([^)]*`), domain.SeverityLow, "JSON parsing (check for untrusted input)"},
	{regexp.MustCompile(`(?i)\.execute\s*\(['"][^'"]*%['"]`), domain.SeverityHigh, "SQL injection vulnerability"},
	{regexp.MustCompile(`(?i)@app\.route.*methods=\[.*['"]GET['"]\].*<.*>`), domain.SeverityMedium, "Potential XSS in Flask route"},
	{regexp.MustCompile(`(?i)random\.`), domain.SeverityLow, "Using random module (not cryptographically secure)"},
}

// Security is the pattern-based vulnerability scanner.
type Security struct{}

// NewSecurity creates a security analyzer.
func NewSecurity() *Security {
	return &Security{}
}

// Analyze scans the source for known vulnerability patterns and scores the
// file from 10.0 down by severity-weighted penalties.
func (a *Security) Analyze(_ context.Context, source, filename string) domain.SecurityResult {
	var vulns []domain.Vulnerability
	score := 10.0

	for _, p := range securityPatterns {
		for _, loc := range p.re.FindAllStringIndex(source, -1) {
			vulns = append(vulns, domain.Vulnerability{
				Line:        strings.Count(source[:loc[0]], "\n") + 1,
				Severity:    p.severity,
				Description: p.description,
				Snippet:     source[loc[0]:loc[1]],
			})

			switch p.severity {
			case domain.SeverityHigh:
				score -= highPenalty
			case domain.SeverityMedium:
				score -= mediumPenalty
			default:
				score -= lowPenalty
			}
		}
	}
	if score < 0 {
		score = 0
	}

	counts := map[domain.Severity]int{
		domain.SeverityHigh:   0,
		domain.SeverityMedium: 0,
		domain.SeverityLow:    0,
	}
	for _, v := range vulns {
		counts[v.Severity]++
	}

	return domain.SecurityResult{
		Filename:        filename,
		Score:           score,
		Vulnerabilities: vulns,
		SeverityCounts:  counts,
		Recommendations: securityRecommendations(vulns, counts),
	}
}

func securityRecommendations(vulns []domain.Vulnerability, counts map[domain.Severity]int) []string {
	if len(vulns) == 0 {
		return []string{"No obvious security vulnerabilities detected"}
	}

	var recs []string
	seen := make(map[string]bool)
	add := func(r string) {
		if !seen[r] {
			seen[r] = true
			recs = append(recs, r)
		}
	}

	if counts[domain.SeverityHigh] > 0 {
		add("Address high-severity security vulnerabilities immediately")
	}
	if counts[domain.SeverityMedium] > 0 {
		add("Review and fix medium-severity security issues")
	}

	for _, v := range vulns {
		switch {
		case strings.Contains(v.Description, "eval()"):
			add("Replace eval() with safer alternatives like ast.literal_eval()")
		case strings.Contains(v.Description, "exec()"):
			add("Avoid exec(), consider redesigning the solution")
		case strings.Contains(v.Description, "Shell injection"):
			add("Set shell=False in subprocess calls")
		case strings.Contains(v.Description, "pickle"):
			add("Use safer serialization formats like JSON")
		case strings.Contains(v.Description, "Hardcoded"):
			add("Use environment variables for credentials")
		}
	}

	return recs
}
