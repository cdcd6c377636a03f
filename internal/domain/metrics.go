package domain

// AnalysisNames lists the five analyses in their canonical reporting order.
var AnalysisNames = []string{"security", "quality", "coverage", "ai_review", "documentation"}

// Summary is the coordinator's derived view over the five result lists.
// Means are computed only over analyses that produced at least one record;
// an empty list contributes nothing rather than dragging its mean to zero.
type Summary struct {
	TotalFiles        int      `json:"total_files_analyzed"`
	AnalysesCompleted []string `json:"analyses_completed"`
	AvgSecurityScore  float64  `json:"avg_security_score"`
	AvgQualityScore   float64  `json:"avg_quality_score"`
	AvgCoverage       float64  `json:"avg_coverage"`
	AvgAIScore        float64  `json:"avg_ai_score"`
	AvgDocumentation  float64  `json:"avg_documentation"`
}

// Completed reports whether the named analysis contributed results.
func (s Summary) Completed(name string) bool {
	for _, n := range s.AnalysesCompleted {
		if n == name {
			return true
		}
	}
	return false
}

// Missing returns the analyses that contributed no results, in canonical order.
func (s Summary) Missing() []string {
	var missing []string
	for _, n := range AnalysisNames {
		if !s.Completed(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Metrics is the snapshot the decision engine classifies on: the five mean
// metrics plus the total count of HIGH-severity vulnerabilities.
type Metrics struct {
	SecurityScore         float64 `json:"security_score"`
	QualityScore          float64 `json:"quality_score"`
	Coverage              float64 `json:"coverage"`
	AIScore               float64 `json:"ai_score"`
	DocumentationCoverage float64 `json:"documentation_coverage"`
	HighSeverityIssues    int     `json:"high_severity_issues"`
}

// Decision is the decision engine's output. Written exactly once per review.
type Decision struct {
	Outcome  Outcome `json:"decision"`
	Critical bool    `json:"has_critical_issues"`
	Reason   string  `json:"critical_reason"`
	Metrics  Metrics `json:"decision_metrics"`
}

// Report is the terminal presentation structure derived from the decision.
type Report struct {
	Outcome          Outcome  `json:"decision"`
	Recommendation   string   `json:"recommendation"`
	Priority         string   `json:"priority"`
	Metrics          Metrics  `json:"metrics"`
	KeyFindings      []string `json:"key_findings"`
	ActionItems      []string `json:"action_items"`
	ApprovalCriteria []string `json:"approval_criteria"`
}
