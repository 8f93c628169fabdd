package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/agents"
	"github.com/swiftjob/hiring-agents/internal/config"
	"github.com/swiftjob/hiring-agents/internal/judge"
	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
	"github.com/swiftjob/hiring-agents/internal/negotiation"
	"github.com/swiftjob/hiring-agents/internal/store"
)

var negotiateCmd = &cobra.Command{
	Use:   "negotiate",
	Short: "Run one salary negotiation end-to-end",
	Long: `Runs a bounded negotiation between a candidate agent and a recruiter agent, then judges the transcript.

The candidate argues from the resume toward the desired salary; the recruiter argues from the job description within the budget ceiling. The judged outcome is printed as JSON.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runNegotiate,
}

var (
	negConfigPath    string
	negResume        string
	negJob           string
	negDesiredSalary string
	negMaxBudget     string
	negMaxTurns      int
	negAPIKey        string
	negDatabaseURL   string
	negOut           string
	negVerbose       bool
)

func init() {
	negotiateCmd.Flags().StringVar(&negConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	negotiateCmd.Flags().StringVarP(&negResume, "resume", "r", "", "Path to candidate resume text file")
	negotiateCmd.Flags().StringVarP(&negJob, "job", "j", "", "Path to job description text file")
	negotiateCmd.Flags().StringVar(&negDesiredSalary, "desired-salary", "", "Candidate's target compensation")
	negotiateCmd.Flags().StringVar(&negMaxBudget, "max-budget", "", "Recruiter's budget ceiling")
	negotiateCmd.Flags().IntVar(&negMaxTurns, "max-turns", 0, "Candidate/recruiter turn pairs")
	negotiateCmd.Flags().StringVar(&negAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	negotiateCmd.Flags().StringVar(&negDatabaseURL, "db-url", "", "PostgreSQL connection URL for persisting outcomes (optional, defaults to DATABASE_URL env var)")
	negotiateCmd.Flags().StringVar(&negOut, "out", "", "Write the JSON outcome to a file instead of stdout")
	negotiateCmd.Flags().BoolVarP(&negVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(negotiateCmd)
}

// negotiateConfig merges config file values with CLI overrides and defaults.
func negotiateConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if negConfigPath != "" {
		loaded, err := config.LoadConfig(negConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("resume") {
		cfg.Resume = negResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = negJob
	}
	if cmd.Flags().Changed("desired-salary") {
		cfg.DesiredSalary = negDesiredSalary
	}
	if cmd.Flags().Changed("max-budget") {
		cfg.MaxBudget = negMaxBudget
	}
	if cmd.Flags().Changed("max-turns") {
		cfg.MaxTurns = negMaxTurns
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = negAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = negDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = negVerbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		MaxTurns:    negotiation.DefaultMaxTurns,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	if cfg.Resume == "" {
		return cfg, fmt.Errorf("--resume is required")
	}
	if cfg.Job == "" {
		return cfg, fmt.Errorf("--job is required")
	}
	if cfg.DesiredSalary == "" {
		return cfg, fmt.Errorf("--desired-salary is required")
	}
	if cfg.MaxBudget == "" {
		return cfg, fmt.Errorf("--max-budget is required")
	}

	return cfg, nil
}

func runNegotiate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := negotiateConfig(cmd)
	if err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(cfg.APIKey)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	resumeText, err := readTextFile(cfg.Resume)
	if err != nil {
		return err
	}
	jobDescription, err := readTextFile(cfg.Job)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	outcome := runOneNegotiation(ctx, client, log, resumeText, jobDescription, cfg)

	if cfg.DatabaseURL != "" {
		persistOutcome(ctx, log, cfg.DatabaseURL, outcome)
	}

	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	if negOut != "" {
		if err := os.WriteFile(negOut, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write outcome: %w", err)
		}
		return nil
	}
	fmt.Println(string(out))

	return nil
}

// runOneNegotiation builds fresh role agents and runs a single judged
// negotiation. Agents are single use because they accumulate history.
func runOneNegotiation(ctx context.Context, client llm.Client, log *zap.Logger, resumeText, jobDescription string, cfg config.Config) negotiation.Outcome {
	candidate := agents.NewRoleAgent(agents.CandidatePersona(resumeText, cfg.DesiredSalary), client, log)
	recruiter := agents.NewRoleAgent(agents.RecruiterPersona(jobDescription, cfg.MaxBudget), client, log)

	orch := negotiation.NewOrchestrator(candidate, recruiter, judge.New(client, log), cfg.MaxTurns, log)
	return orch.Run(ctx, "", jobDescription)
}

// persistOutcome saves the outcome to the database. Failures are logged,
// not surfaced: the outcome is already on stdout.
func persistOutcome(ctx context.Context, log *zap.Logger, databaseURL string, outcome negotiation.Outcome) {
	pg, err := store.Connect(ctx, databaseURL)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return
	}
	defer pg.Close()

	rec := &store.NegotiationRecord{
		ID:        outcome.ID,
		Status:    outcome.Status,
		Score:     outcome.Score,
		Reason:    outcome.Reason,
		ChatLog:   outcome.Transcript,
		CreatedAt: time.Now().UTC(),
	}
	if err := pg.InsertNegotiation(ctx, rec); err != nil {
		log.Error("failed to persist negotiation",
			zap.String("negotiation_id", outcome.ID.String()),
			zap.Error(err),
		)
	}
}
