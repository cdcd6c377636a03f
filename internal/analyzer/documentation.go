package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/richhaase/reviewflow/internal/domain"
)

// maxMissingDocs caps the missing-documentation list carried in the result.
const maxMissingDocs = 10

// Documentation measures docstring coverage over a file's documentable
// items: the module itself plus every public function and class.
type Documentation struct{}

// NewDocumentation creates a documentation analyzer.
func NewDocumentation() *Documentation {
	return &Documentation{}
}

// Analyze computes the percentage of documentable items carrying a docstring.
func (a *Documentation) Analyze(_ context.Context, source, filename string) domain.DocumentationResult {
	lines := strings.Split(source, "\n")

	total := 1 // module itself
	documented := 0
	var missing []domain.DocItem

	if hasModuleDocstring(lines) {
		documented++
	} else {
		missing = append(missing, domain.DocItem{Type: "module", Name: filename, Line: 1})
	}

	for _, f := range findDefs(source, defRe, true) {
		total++
		if hasDocstringAfter(lines, f.line) {
			documented++
		} else {
			missing = append(missing, domain.DocItem{Type: "function", Name: f.name, Line: f.line})
		}
	}

	for _, c := range findDefs(source, classRe, false) {
		total++
		if hasDocstringAfter(lines, c.line) {
			documented++
		} else {
			missing = append(missing, domain.DocItem{Type: "class", Name: c.name, Line: c.line})
		}
	}

	coverage := 100.0
	if total > 0 {
		coverage = float64(documented) / float64(total) * 100
	}

	kept := missing
	if len(kept) > maxMissingDocs {
		kept = kept[:maxMissingDocs]
	}

	return domain.DocumentationResult{
		Filename:        filename,
		Coverage:        coverage,
		TotalItems:      total,
		DocumentedItems: documented,
		Missing:         kept,
		Recommendations: docRecommendations(coverage, missing),
	}
}

// hasModuleDocstring reports whether the first significant line opens a docstring.
func hasModuleDocstring(lines []string) bool {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
	}
	return false
}

// hasDocstringAfter reports whether a docstring opens on the first
// significant line after the definition's signature. defLine is 1-based.
func hasDocstringAfter(lines []string, defLine int) bool {
	// Skip past a possibly multi-line signature by finding the line ending
	// with a colon, then inspect the next significant line.
	i := defLine - 1
	for ; i < len(lines); i++ {
		if strings.HasSuffix(strings.TrimRight(lines[i], " \t"), ":") {
			break
		}
	}
	for j := i + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
	}
	return false
}

func docRecommendations(coverage float64, missing []domain.DocItem) []string {
	var recs []string

	if coverage < 50 {
		recs = append(recs, "Critical: Documentation coverage is very low")
	} else if coverage < 70 {
		recs = append(recs, "Documentation coverage below threshold")
	}

	if len(missing) > 0 {
		recs = append(recs, fmt.Sprintf("Add docstrings to %d items", len(missing)))

		var functions, classes int
		for _, m := range missing {
			switch m.Type {
			case "function":
				functions++
			case "class":
				classes++
			}
		}
		if functions > 0 {
			recs = append(recs, fmt.Sprintf("Document %d function(s)", functions))
		}
		if classes > 0 {
			recs = append(recs, fmt.Sprintf("Document %d class(es)", classes))
		}
	}

	if coverage >= 70 {
		recs = append(recs, "Documentation coverage is good")
	}
	return recs
}
