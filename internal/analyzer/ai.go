package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/richhaase/reviewflow/internal/domain"
)

// Default score and confidence when the LLM is unavailable or fails.
const (
	degradedAIScore = 0.5
	parsedAIScore   = 0.75 // assumed when the response carries no explicit score
	maxPromptCode   = 2000
	maxRawResponse  = 500
)

// AIReview generates an LLM-powered review for each file.
type AIReview struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewAIReview creates the LLM reviewer. With an empty API key the reviewer
// stays disabled and every file gets a degraded default record.
func NewAIReview(apiKey, model string) *AIReview {
	if apiKey == "" {
		return &AIReview{model: anthropic.Model(model)}
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AIReview{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// Analyze asks the model for a structured review of the file. Any failure —
// missing key, API error, empty response — degrades to a default record
// rather than an error; the coordination engine never sees LLM failures.
func (a *AIReview) Analyze(ctx context.Context, source, filename string) domain.AIReviewResult {
	if a.api == nil {
		return a.defaultResult(filename, "LLM API not available")
	}

	msg, err := a.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildReviewPrompt(source, filename))),
		},
	})
	if err != nil {
		return a.defaultResult(filename, err.Error())
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return a.defaultResult(filename, "no text content in API response")
	}

	parsed := parseReviewResponse(text)

	raw := text
	if len(raw) > maxRawResponse {
		raw = raw[:maxRawResponse]
	}

	return domain.AIReviewResult{
		Filename:        filename,
		OverallScore:    parsed.score,
		Confidence:      parsed.confidence,
		Strengths:       parsed.strengths,
		Issues:          parsed.issues,
		Recommendations: parsed.recommendations,
		RawResponse:     raw,
	}
}

func buildReviewPrompt(source, filename string) string {
	code := source
	if len(code) > maxPromptCode {
		code = code[:maxPromptCode]
	}

	var sb strings.Builder
	sb.WriteString("You are an expert code reviewer. Analyze this Python code and provide a structured review.\n\n")
	fmt.Fprintf(&sb, "File: %s\n\nCode:\n```python\n%s\n```\n\n", filename, code)
	sb.WriteString(`Please provide:
1. Overall quality score (0.0 to 1.0)
2. Key strengths of the code
3. Issues or concerns
4. Specific recommendations for improvement

Format your response clearly with sections for each point.
`)
	return sb.String()
}

type parsedReview struct {
	score           float64
	confidence      float64
	strengths       []string
	issues          []string
	recommendations []string
}

var scoreRe = regexp.MustCompile(`(\d+\.?\d*)\s*/\s*(?:1\.0|10)`)

// parseReviewResponse extracts a score and bullet sections from free-form
// review text. Accepts both "0.85/1.0" and "8.5/10" score notations.
func parseReviewResponse(response string) parsedReview {
	parsed := parsedReview{score: parsedAIScore, confidence: 0.8}

	if m := scoreRe.FindStringSubmatch(response); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			if score > 1 {
				score /= 10
			}
			parsed.score = score
		}
	}

	var current *[]string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*"):
			if current != nil {
				*current = append(*current, strings.TrimSpace(strings.TrimLeft(line, "-*")))
			}
		case strings.Contains(lower, "strength"):
			current = &parsed.strengths
		case strings.Contains(lower, "issue") || strings.Contains(lower, "concern"):
			current = &parsed.issues
		case strings.Contains(lower, "recommend"):
			current = &parsed.recommendations
		}
	}

	return parsed
}

func (a *AIReview) defaultResult(filename, reason string) domain.AIReviewResult {
	return domain.AIReviewResult{
		Filename:        filename,
		OverallScore:    degradedAIScore,
		Confidence:      0.0,
		Issues:          []string{fmt.Sprintf("AI review unavailable: %s", reason)},
		Recommendations: []string{"Manual review recommended"},
		RawResponse:     fmt.Sprintf("Error: %s", reason),
	}
}
