// Package config provides configuration file support for reviewflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richhaase/reviewflow/internal/review"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".reviewflow.yaml"

// DefaultModel is the Anthropic model used for AI review when none is configured.
const DefaultModel = "claude-haiku-4-5-20251001"

// Duration is a custom type that handles YAML duration parsing.
// Supports both Go duration format ("30s", "2m") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(time.Duration(v) * time.Second)
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the reviewflow configuration file.
type Config struct {
	GitHub     GitHubConfig    `yaml:"github"`
	Anthropic  AnthropicConfig `yaml:"anthropic"`
	Email      EmailConfig     `yaml:"email"`
	Thresholds ThresholdConfig `yaml:"thresholds"`
	Analyzer   AnalyzerConfig  `yaml:"analyzer"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	Token      *string  `yaml:"token"`
	APIURL     *string  `yaml:"api_url"`
	Extensions []string `yaml:"extensions"`
}

// AnthropicConfig holds AI review settings.
type AnthropicConfig struct {
	APIKey *string `yaml:"api_key"`
	Model  *string `yaml:"model"`
}

// EmailConfig holds SMTP notification settings.
type EmailConfig struct {
	From     *string `yaml:"from"`
	Password *string `yaml:"password"`
	To       *string `yaml:"to"`
	SMTPHost *string `yaml:"smtp_host"`
	SMTPPort *int    `yaml:"smtp_port"`
}

// ThresholdConfig holds the decision floors.
type ThresholdConfig struct {
	SecurityFloor      *float64 `yaml:"security_floor"`
	QualityFloor       *float64 `yaml:"quality_floor"`
	CoverageFloor      *float64 `yaml:"coverage_floor"`
	AIConfidenceFloor  *float64 `yaml:"ai_confidence_floor"`
	DocumentationFloor *float64 `yaml:"documentation_floor"`
}

// AnalyzerConfig holds analyzer runtime settings.
type AnalyzerConfig struct {
	Timeout *Duration `yaml:"timeout"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Warnings []string
}

// LoadWithWarnings reads .reviewflow.yaml from the current directory and
// returns warnings. Returns an empty config (not error) if the file doesn't
// exist.
func LoadWithWarnings() (*LoadResult, error) {
	dir, err := os.Getwd()
	if err != nil {
		return &LoadResult{Config: &Config{}}, nil
	}
	return LoadFromDirWithWarnings(dir)
}

// LoadFromDirWithWarnings reads .reviewflow.yaml from the specified directory
// and returns warnings.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	return LoadFromPathWithWarnings(filepath.Join(dir, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for
// unknown keys. Returns an empty config (not error) if the file doesn't
// exist. Returns an error if the file exists but is invalid YAML or holds
// invalid values.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	return &LoadResult{Config: &cfg, Warnings: warnings}, nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"github", "anthropic", "email", "thresholds", "analyzer"}

// knownSectionKeys are the valid keys under each top-level section.
var knownSectionKeys = map[string][]string{
	"github":     {"token", "api_url", "extensions"},
	"anthropic":  {"api_key", "model"},
	"email":      {"from", "password", "to", "smtp_host", "smtp_port"},
	"thresholds": {"security_floor", "quality_floor", "coverage_floor", "ai_confidence_floor", "documentation_floor"},
	"analyzer":   {"timeout"},
}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// If we can't parse, let the main parser handle the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	for section, known := range knownSectionKeys {
		sub, ok := raw[section].(map[string]any)
		if !ok {
			continue
		}
		for key := range sub {
			if !slices.Contains(known, key) {
				warning := fmt.Sprintf("unknown key %q in %s section of %s", key, section, ConfigFileName)
				if suggestion := findSimilar(key, known); suggestion != "" {
					warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
				}
				warnings = append(warnings, warning)
			}
		}
	}

	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is similar enough (threshold: 3 edits).
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshtein calculates the Levenshtein distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.SecurityFloor != nil && (*t.SecurityFloor < 0 || *t.SecurityFloor > 10) {
		return fmt.Errorf("security_floor must be in [0, 10], got %v", *t.SecurityFloor)
	}
	if t.QualityFloor != nil && (*t.QualityFloor < 0 || *t.QualityFloor > 10) {
		return fmt.Errorf("quality_floor must be in [0, 10], got %v", *t.QualityFloor)
	}
	if t.CoverageFloor != nil && (*t.CoverageFloor < 0 || *t.CoverageFloor > 100) {
		return fmt.Errorf("coverage_floor must be in [0, 100], got %v", *t.CoverageFloor)
	}
	if t.AIConfidenceFloor != nil && (*t.AIConfidenceFloor < 0 || *t.AIConfidenceFloor > 1) {
		return fmt.Errorf("ai_confidence_floor must be in [0, 1], got %v", *t.AIConfidenceFloor)
	}
	if t.DocumentationFloor != nil && (*t.DocumentationFloor < 0 || *t.DocumentationFloor > 100) {
		return fmt.Errorf("documentation_floor must be in [0, 100], got %v", *t.DocumentationFloor)
	}
	if c.Analyzer.Timeout != nil && *c.Analyzer.Timeout <= 0 {
		return fmt.Errorf("analyzer timeout must be > 0, got %s", time.Duration(*c.Analyzer.Timeout))
	}
	if c.Email.SMTPPort != nil && (*c.Email.SMTPPort < 1 || *c.Email.SMTPPort > 65535) {
		return fmt.Errorf("smtp_port must be in [1, 65535], got %d", *c.Email.SMTPPort)
	}
	return nil
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	APIURL:          "https://api.github.com",
	Extensions:      []string{".py"},
	Model:           DefaultModel,
	SMTPHost:        "smtp.gmail.com",
	SMTPPort:        587,
	Thresholds:      review.DefaultThresholds,
	AnalyzerTimeout: 30 * time.Second,
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	GitHubToken     string
	APIURL          string
	Extensions      []string
	AnthropicAPIKey string
	Model           string
	EmailFrom       string
	EmailPassword   string
	EmailTo         string
	SMTPHost        string
	SMTPPort        int
	Thresholds      review.Thresholds
	AnalyzerTimeout time.Duration
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	ModelSet           bool
	APIURLSet          bool
	ExtensionsSet      bool
	AnalyzerTimeoutSet bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	GitHubToken        string
	GitHubTokenSet     bool
	APIURL             string
	APIURLSet          bool
	AnthropicAPIKey    string
	AnthropicAPIKeySet bool
	Model              string
	ModelSet           bool
	EmailFrom          string
	EmailFromSet       bool
	EmailPassword      string
	EmailPasswordSet   bool
	EmailTo            string
	EmailToSet         bool
	SMTPHost           string
	SMTPHostSet        bool
	SMTPPort           int
	SMTPPortSet        bool
	AnalyzerTimeout    time.Duration
	AnalyzerTimeoutSet bool
}

// LoadEnvState reads environment variables and returns their state.
// GITHUB_TOKEN and ANTHROPIC_API_KEY are honored as conventional fallbacks
// for the REVIEWFLOW_-prefixed variables.
func LoadEnvState() EnvState {
	var state EnvState

	if v := firstEnv("REVIEWFLOW_GITHUB_TOKEN", "GITHUB_TOKEN"); v != "" {
		state.GitHubToken = v
		state.GitHubTokenSet = true
	}
	if v := os.Getenv("REVIEWFLOW_API_URL"); v != "" {
		state.APIURL = v
		state.APIURLSet = true
	}
	if v := firstEnv("REVIEWFLOW_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"); v != "" {
		state.AnthropicAPIKey = v
		state.AnthropicAPIKeySet = true
	}
	if v := os.Getenv("REVIEWFLOW_MODEL"); v != "" {
		state.Model = v
		state.ModelSet = true
	}
	if v := os.Getenv("REVIEWFLOW_EMAIL_FROM"); v != "" {
		state.EmailFrom = v
		state.EmailFromSet = true
	}
	if v := os.Getenv("REVIEWFLOW_EMAIL_PASSWORD"); v != "" {
		state.EmailPassword = v
		state.EmailPasswordSet = true
	}
	if v := os.Getenv("REVIEWFLOW_EMAIL_TO"); v != "" {
		state.EmailTo = v
		state.EmailToSet = true
	}
	if v := os.Getenv("REVIEWFLOW_SMTP_HOST"); v != "" {
		state.SMTPHost = v
		state.SMTPHostSet = true
	}
	if v := os.Getenv("REVIEWFLOW_SMTP_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			state.SMTPPort = i
			state.SMTPPortSet = true
		}
	}
	if v := os.Getenv("REVIEWFLOW_ANALYZER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			state.AnalyzerTimeout = d
			state.AnalyzerTimeoutSet = true
		} else if secs, err := strconv.Atoi(v); err == nil {
			state.AnalyzerTimeout = time.Duration(secs) * time.Second
			state.AnalyzerTimeoutSet = true
		}
	}

	return state
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) ResolvedConfig {
	result := Defaults

	if cfg != nil {
		if cfg.GitHub.Token != nil {
			result.GitHubToken = *cfg.GitHub.Token
		}
		if cfg.GitHub.APIURL != nil {
			result.APIURL = *cfg.GitHub.APIURL
		}
		if cfg.GitHub.Extensions != nil {
			result.Extensions = cfg.GitHub.Extensions
		}
		if cfg.Anthropic.APIKey != nil {
			result.AnthropicAPIKey = *cfg.Anthropic.APIKey
		}
		if cfg.Anthropic.Model != nil {
			result.Model = *cfg.Anthropic.Model
		}
		if cfg.Email.From != nil {
			result.EmailFrom = *cfg.Email.From
		}
		if cfg.Email.Password != nil {
			result.EmailPassword = *cfg.Email.Password
		}
		if cfg.Email.To != nil {
			result.EmailTo = *cfg.Email.To
		}
		if cfg.Email.SMTPHost != nil {
			result.SMTPHost = *cfg.Email.SMTPHost
		}
		if cfg.Email.SMTPPort != nil {
			result.SMTPPort = *cfg.Email.SMTPPort
		}
		if cfg.Thresholds.SecurityFloor != nil {
			result.Thresholds.Security = *cfg.Thresholds.SecurityFloor
		}
		if cfg.Thresholds.QualityFloor != nil {
			result.Thresholds.Quality = *cfg.Thresholds.QualityFloor
		}
		if cfg.Thresholds.CoverageFloor != nil {
			result.Thresholds.Coverage = *cfg.Thresholds.CoverageFloor
		}
		if cfg.Thresholds.AIConfidenceFloor != nil {
			result.Thresholds.AIConfidence = *cfg.Thresholds.AIConfidenceFloor
		}
		if cfg.Thresholds.DocumentationFloor != nil {
			result.Thresholds.Documentation = *cfg.Thresholds.DocumentationFloor
		}
		if cfg.Analyzer.Timeout != nil {
			result.AnalyzerTimeout = cfg.Analyzer.Timeout.AsDuration()
		}
	}

	if envState.GitHubTokenSet {
		result.GitHubToken = envState.GitHubToken
	}
	if envState.APIURLSet {
		result.APIURL = envState.APIURL
	}
	if envState.AnthropicAPIKeySet {
		result.AnthropicAPIKey = envState.AnthropicAPIKey
	}
	if envState.ModelSet {
		result.Model = envState.Model
	}
	if envState.EmailFromSet {
		result.EmailFrom = envState.EmailFrom
	}
	if envState.EmailPasswordSet {
		result.EmailPassword = envState.EmailPassword
	}
	if envState.EmailToSet {
		result.EmailTo = envState.EmailTo
	}
	if envState.SMTPHostSet {
		result.SMTPHost = envState.SMTPHost
	}
	if envState.SMTPPortSet {
		result.SMTPPort = envState.SMTPPort
	}
	if envState.AnalyzerTimeoutSet {
		result.AnalyzerTimeout = envState.AnalyzerTimeout
	}

	if flagState.ModelSet {
		result.Model = flagValues.Model
	}
	if flagState.APIURLSet {
		result.APIURL = flagValues.APIURL
	}
	if flagState.ExtensionsSet {
		result.Extensions = flagValues.Extensions
	}
	if flagState.AnalyzerTimeoutSet {
		result.AnalyzerTimeout = flagValues.AnalyzerTimeout
	}

	return result
}
