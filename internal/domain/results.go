package domain

// Severity classifies a security finding.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// Vulnerability is a single security finding in a file.
type Vulnerability struct {
	Line        int      `json:"line"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Snippet     string   `json:"code_snippet"`
}

// SecurityResult holds the security analysis for one file.
type SecurityResult struct {
	Filename        string           `json:"filename"`
	Score           float64          `json:"security_score"`
	Vulnerabilities []Vulnerability  `json:"vulnerabilities"`
	SeverityCounts  map[Severity]int `json:"severity_counts"`
	Recommendations []string         `json:"recommendations"`
}

// HighSeverityCount returns the number of HIGH findings in this file.
func (r SecurityResult) HighSeverityCount() int {
	return r.SeverityCounts[SeverityHigh]
}

// LintIssue is a single issue reported by the external linter.
type LintIssue struct {
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// QualityResult holds the lint analysis for one file.
type QualityResult struct {
	Filename         string         `json:"filename"`
	Score            float64        `json:"score"`
	TotalIssues      int            `json:"total_issues"`
	Issues           []LintIssue    `json:"issues"`
	IssuesByCategory map[string]int `json:"issues_by_category"`
	Recommendations  []string       `json:"recommendations"`
}

// CoverageResult holds the test coverage estimate for one file.
type CoverageResult struct {
	Filename        string   `json:"filename"`
	CoveragePercent float64  `json:"coverage_percent"`
	TestableItems   int      `json:"total_testable_items"`
	MissingTests    []string `json:"missing_tests"`
	Recommendations []string `json:"recommendations"`
}

// AIReviewResult holds the LLM review for one file.
type AIReviewResult struct {
	Filename        string   `json:"filename"`
	OverallScore    float64  `json:"overall_score"`
	Confidence      float64  `json:"confidence"`
	Strengths       []string `json:"strengths"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	RawResponse     string   `json:"raw_response"`
}

// DocItem identifies a code element missing documentation.
type DocItem struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Line int    `json:"line"`
}

// DocumentationResult holds the documentation analysis for one file.
type DocumentationResult struct {
	Filename        string    `json:"filename"`
	Coverage        float64   `json:"documentation_coverage"`
	TotalItems      int       `json:"total_items"`
	DocumentedItems int       `json:"documented_items"`
	Missing         []DocItem `json:"missing_documentation"`
	Recommendations []string  `json:"recommendations"`
}
