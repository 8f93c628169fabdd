// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Resume string `json:"resume,omitempty"` // Path to candidate resume text file
	Job    string `json:"job,omitempty"`    // Path to job description text file

	// Negotiation
	DesiredSalary string `json:"desired_salary,omitempty"` // Candidate's target compensation
	MaxBudget     string `json:"max_budget,omitempty"`     // Recruiter's budget ceiling
	MaxTurns      int    `json:"max_turns,omitempty"`      // Candidate/recruiter turn pairs per run

	// Interview
	Role          string `json:"role,omitempty"`           // Target role for interview sessions
	InterviewType string `json:"interview_type,omitempty"` // behavioral, technical, case_study, system_design, mixed
	Difficulty    string `json:"difficulty,omitempty"`     // easy, medium, hard, expert

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	LogJSON     bool   `json:"log_json,omitempty"`     // Emit structured JSON logs
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxTurns < 0 {
		return fmt.Errorf("config error: 'max_turns' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch c.InterviewType {
	case "", "behavioral", "technical", "case_study", "system_design", "mixed":
	default:
		return fmt.Errorf("config error: unknown 'interview_type': %s", c.InterviewType)
	}

	switch c.Difficulty {
	case "", "easy", "medium", "hard", "expert":
	default:
		return fmt.Errorf("config error: unknown 'difficulty': %s", c.Difficulty)
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}
	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.DesiredSalary == "" {
		result.DesiredSalary = defaults.DesiredSalary
	}
	if result.MaxBudget == "" {
		result.MaxBudget = defaults.MaxBudget
	}
	if result.Role == "" {
		result.Role = defaults.Role
	}
	if result.InterviewType == "" {
		result.InterviewType = defaults.InterviewType
	}
	if result.Difficulty == "" {
		result.Difficulty = defaults.Difficulty
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxTurns == 0 {
		result.MaxTurns = defaults.MaxTurns
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
