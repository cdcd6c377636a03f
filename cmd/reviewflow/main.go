// Package main provides the CLI entry point for reviewflow.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/richhaase/reviewflow/internal/domain"
)

var version = "dev"

var (
	verbose         bool
	noColor         bool
	noConfig        bool
	noEmail         bool
	model           string
	apiURL          string
	extensions      []string
	analyzerTimeout time.Duration
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "reviewflow OWNER/REPO PR_NUMBER",
		Short: "Automated pull request review pipeline",
		Long: `Run five analyzers in parallel over a pull request's changed files,
merge the results, and decide whether the PR can be auto-approved or
needs escalation.

Exit codes:
  0 - Auto-approved
  1 - Needs attention
  2 - Error
  130 - Interrupted`,
		Args:          cobra.ExactArgs(2),
		RunE:          runReview,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Configuration flags (defaults are resolved via config.Resolve with precedence: flag > env > config > default)
	rootCmd.Flags().StringVarP(&model, "model", "m", "",
		"Anthropic model for the AI review stage (env: REVIEWFLOW_MODEL)")
	rootCmd.Flags().StringVar(&apiURL, "api-url", "",
		"GitHub API base URL (default: https://api.github.com, env: REVIEWFLOW_API_URL)")
	rootCmd.Flags().StringArrayVarP(&extensions, "extension", "e", nil,
		"File extensions to review (repeatable, default: .py)")
	rootCmd.Flags().DurationVarP(&analyzerTimeout, "timeout", "t", 0,
		"Timeout per external analyzer run (default: 30s, env: REVIEWFLOW_ANALYZER_TIMEOUT)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print per-stage progress as analyses complete")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading .reviewflow.yaml config file")
	rootCmd.Flags().BoolVar(&noEmail, "no-email", false,
		"Skip email notifications even when configured")

	rootCmd.AddCommand(newConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}

// exitCodeError is a wrapper type for returning exit codes via error interface.
type exitCodeError struct {
	code domain.ExitCode
}

func (e exitCodeError) Error() string {
	switch e.code {
	case domain.ExitNeedsAttention:
		return "review needs attention"
	case domain.ExitError:
		return "review failed with error"
	case domain.ExitInterrupted:
		return "review was interrupted"
	default:
		return fmt.Sprintf("exit code %d", e.code)
	}
}

func exitCode(code domain.ExitCode) error {
	if code == domain.ExitApproved {
		return nil
	}
	return exitCodeError{code: code}
}
