package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/reviewflow/internal/config"
	"github.com/richhaase/reviewflow/internal/terminal"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage reviewflow configuration",
		Long:  "View, initialize, and validate reviewflow configuration files and environment variables.",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display resolved configuration",
		Long:  "Show the fully resolved configuration from defaults, config file, and environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := config.LoadWithWarnings()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}

			resolved := config.Resolve(result.Config, config.LoadEnvState(), config.FlagState{}, config.ResolvedConfig{})

			fmt.Println("Resolved configuration:")
			fmt.Println()
			fmt.Printf("  %-26s %s\n", "github.api_url:", resolved.APIURL)
			fmt.Printf("  %-26s %s\n", "github.token:", maskSecret(resolved.GitHubToken))
			fmt.Printf("  %-26s %s\n", "github.extensions:", strings.Join(resolved.Extensions, ", "))
			fmt.Printf("  %-26s %s\n", "anthropic.api_key:", maskSecret(resolved.AnthropicAPIKey))
			fmt.Printf("  %-26s %s\n", "anthropic.model:", resolved.Model)
			fmt.Printf("  %-26s %s\n", "email.from:", valueOrUnset(resolved.EmailFrom))
			fmt.Printf("  %-26s %s\n", "email.to:", valueOrUnset(resolved.EmailTo))
			fmt.Printf("  %-26s %s:%d\n", "email.smtp:", resolved.SMTPHost, resolved.SMTPPort)
			fmt.Printf("  %-26s %.1f\n", "thresholds.security:", resolved.Thresholds.Security)
			fmt.Printf("  %-26s %.1f\n", "thresholds.quality:", resolved.Thresholds.Quality)
			fmt.Printf("  %-26s %.1f\n", "thresholds.coverage:", resolved.Thresholds.Coverage)
			fmt.Printf("  %-26s %.2f\n", "thresholds.ai_confidence:", resolved.Thresholds.AIConfidence)
			fmt.Printf("  %-26s %.1f\n", "thresholds.documentation:", resolved.Thresholds.Documentation)
			fmt.Printf("  %-26s %s\n", "analyzer.timeout:", resolved.AnalyzerTimeout)

			return nil
		},
	}
}

func maskSecret(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "(set)"
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// starterConfig is the commented template written by config init.
const starterConfig = `# reviewflow configuration file

# GitHub API settings
# github:
#   token: ""            # or set GITHUB_TOKEN
#   api_url: https://api.github.com
#   extensions:
#     - .py

# AI review settings
# anthropic:
#   api_key: ""          # or set ANTHROPIC_API_KEY
#   model: claude-haiku-4-5-20251001

# Email notifications (all three required to enable)
# email:
#   from: ""
#   password: ""
#   to: ""
#   smtp_host: smtp.gmail.com
#   smtp_port: 587

# Decision floors
# thresholds:
#   security_floor: 8.0
#   quality_floor: 7.0
#   coverage_floor: 80.0
#   ai_confidence_floor: 0.8
#   documentation_floor: 70.0

# External analyzer settings
# analyzer:
#   timeout: 30s
`

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a starter .reviewflow.yaml file",
		Long:  "Create a commented .reviewflow.yaml configuration file in the current directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			configPath := filepath.Join(dir, config.ConfigFileName)

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("%s already exists; remove it first or edit it directly", configPath)
			}

			if err := os.WriteFile(configPath, []byte(starterConfig), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", configPath, err)
			}

			fmt.Printf("Created %s with default settings (commented out).\n", configPath)
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and environment variables",
		Long:  "Load and validate the config file, reporting any warnings or errors.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !terminal.IsStdoutTTY() {
				terminal.DisableColors()
			}
			logger := terminal.NewLogger()

			result, err := config.LoadWithWarnings()
			if err != nil {
				logger.Logf(terminal.StyleError, "%v", err)
				return fmt.Errorf("configuration is invalid")
			}

			for _, w := range result.Warnings {
				logger.Logf(terminal.StyleWarning, "Config: %s", w)
			}

			if len(result.Warnings) > 0 {
				logger.Log("Configuration is valid (with warnings).", terminal.StyleSuccess)
			} else {
				logger.Log("Configuration is valid.", terminal.StyleSuccess)
			}

			return nil
		},
	}
}
