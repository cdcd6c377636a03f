package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/richhaase/reviewflow/internal/analyzer"
	"github.com/richhaase/reviewflow/internal/config"
	"github.com/richhaase/reviewflow/internal/domain"
	"github.com/richhaase/reviewflow/internal/github"
	"github.com/richhaase/reviewflow/internal/graph"
	"github.com/richhaase/reviewflow/internal/notify"
	"github.com/richhaase/reviewflow/internal/review"
	"github.com/richhaase/reviewflow/internal/state"
	"github.com/richhaase/reviewflow/internal/terminal"
)

// parseTarget parses the OWNER/REPO and PR_NUMBER positional arguments.
func parseTarget(args []string) (owner, repo string, number int, err error) {
	parts := strings.Split(args[0], "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, fmt.Errorf("expected OWNER/REPO, got %q", args[0])
	}
	number, err = strconv.Atoi(args[1])
	if err != nil || number < 1 {
		return "", "", 0, fmt.Errorf("invalid PR number %q", args[1])
	}
	return parts[0], parts[1], number, nil
}

func runReview(cmd *cobra.Command, args []string) error {
	// Disable colors if stdout is not a TTY
	if noColor || !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}

	logger := terminal.NewLogger()

	owner, repo, number, err := parseTarget(args)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return exitCode(domain.ExitError)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	var interrupted atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		interrupted.Store(true)
		cancel()
	}()

	// Load config file (unless --no-config)
	cfg := &config.Config{}
	if !noConfig {
		result, err := config.LoadWithWarnings()
		if err != nil {
			logger.Logf(terminal.StyleError, "Config error: %v", err)
			return exitCode(domain.ExitError)
		}
		cfg = result.Config
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	// Build flag state from cobra's Changed() method
	flagState := config.FlagState{
		ModelSet:           cmd.Flags().Changed("model"),
		APIURLSet:          cmd.Flags().Changed("api-url"),
		ExtensionsSet:      cmd.Flags().Changed("extension"),
		AnalyzerTimeoutSet: cmd.Flags().Changed("timeout"),
	}
	flagValues := config.ResolvedConfig{
		Model:           model,
		APIURL:          apiURL,
		Extensions:      extensions,
		AnalyzerTimeout: analyzerTimeout,
	}

	// Resolve final configuration (precedence: flags > env vars > config file > defaults)
	resolved := config.Resolve(cfg, config.LoadEnvState(), flagState, flagValues)

	if resolved.GitHubToken == "" {
		logger.Log("No GitHub token configured, unauthenticated API limits apply", terminal.StyleDim)
	}
	if resolved.AnthropicAPIKey == "" {
		logger.Log("No Anthropic API key configured, AI review will run degraded", terminal.StyleWarning)
	}

	var notifier graph.Notifier
	if !noEmail {
		mailer := notify.NewMailer(resolved.EmailFrom, resolved.EmailPassword, resolved.EmailTo,
			resolved.SMTPHost, resolved.SMTPPort)
		if mailer.Enabled() {
			notifier = mailer
		}
	}

	engine := graph.New(graph.Config{
		Host:          github.NewClient(resolved.GitHubToken, resolved.APIURL, resolved.Extensions),
		Security:      analyzer.NewSecurity(),
		Quality:       analyzer.NewQuality(resolved.AnalyzerTimeout),
		Coverage:      analyzer.NewCoverage(),
		AIReview:      analyzer.NewAIReview(resolved.AnthropicAPIKey, resolved.Model),
		Documentation: analyzer.NewDocumentation(),
		Notifier:      notifier,
		Thresholds:    resolved.Thresholds,
		Logger:        logger,
		Verbose:       verbose,
	})

	start := time.Now()
	s := engine.Run(ctx, owner, repo, number)
	elapsed := time.Since(start)

	if s.Failed() {
		if interrupted.Load() {
			return exitCode(domain.ExitInterrupted)
		}
		return exitCode(domain.ExitError)
	}

	if s.Decision == nil || s.Report == nil {
		// Nothing matched the extension filter; treated as approved.
		return exitCode(domain.ExitApproved)
	}

	renderReport(os.Stdout, s, resolved.Thresholds, elapsed)

	if s.Decision.Outcome == domain.OutcomeAutoApprove {
		return exitCode(domain.ExitApproved)
	}
	return exitCode(domain.ExitNeedsAttention)
}

// outcomeColor maps an outcome to its display color.
func outcomeColor(o domain.Outcome) string {
	switch o {
	case domain.OutcomeAutoApprove:
		return terminal.Green
	case domain.OutcomeCriticalEscalation:
		return terminal.Red
	default:
		return terminal.Yellow
	}
}

// renderReport prints the final report to out.
func renderReport(out io.Writer, s state.ReviewState, t review.Thresholds, elapsed time.Duration) {
	rep := *s.Report
	width := terminal.ReportWidth()

	fmt.Fprintln(out)
	fmt.Fprintln(out, terminal.Ruler(width, "="))
	fmt.Fprintf(out, "%s%s%s%s %s(PR #%d, %s)%s\n",
		terminal.Color(terminal.Bold), terminal.Color(outcomeColor(rep.Outcome)),
		rep.Recommendation, terminal.Color(terminal.Reset),
		terminal.Color(terminal.Dim), s.PR.Number, rep.Priority+" priority", terminal.Color(terminal.Reset))
	fmt.Fprintln(out, terminal.Ruler(width, "="))

	fmt.Fprintf(out, "\n%s: %s by %s\n", s.ReviewID, s.PR.Title, s.PR.Author)
	fmt.Fprintf(out, "Analyzed %d files in %s\n\n", len(s.Files), terminal.FormatDuration(elapsed))

	table := metricsTable(out)
	m := rep.Metrics
	table.Append([]string{"Security", fmt.Sprintf("%.2f/10.0", m.SecurityScore), fmt.Sprintf(">= %.1f", t.Security)})
	table.Append([]string{"Quality", fmt.Sprintf("%.2f/10.0", m.QualityScore), fmt.Sprintf(">= %.1f", t.Quality)})
	table.Append([]string{"Coverage", fmt.Sprintf("%.1f%%", m.Coverage), fmt.Sprintf(">= %.1f%%", t.Coverage)})
	table.Append([]string{"AI confidence", fmt.Sprintf("%.2f/1.0", m.AIScore), fmt.Sprintf(">= %.2f", t.AIConfidence)})
	table.Append([]string{"Documentation", fmt.Sprintf("%.1f%%", m.DocumentationCoverage), fmt.Sprintf(">= %.1f%%", t.Documentation)})
	table.Append([]string{"High severity", strconv.Itoa(m.HighSeverityIssues), "0"})
	table.Render()

	renderSection(out, "Key findings", rep.KeyFindings, width)
	renderSection(out, "Action items", rep.ActionItems, width)
	renderSection(out, "Approval criteria", rep.ApprovalCriteria, width)
}

// metricsTable creates a borderless table in the shared styling.
func metricsTable(out io.Writer) *tablewriter.Table {
	table := tablewriter.NewTable(out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "  ", Right: "  "}),
	)
	table.Header([]string{"Metric", "Value", "Floor"})
	return table
}

// renderSection prints a titled bullet list, wrapped to the report width.
func renderSection(out io.Writer, title string, items []string, width int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s%s%s\n", terminal.Color(terminal.Bold), title, terminal.Color(terminal.Reset))
	for _, item := range items {
		wrapped := terminal.WrapText(item, width, "    ")
		fmt.Fprintf(out, "  - %s\n", strings.TrimLeft(wrapped, " "))
	}
}
