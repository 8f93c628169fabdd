package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/swiftjob/hiring-agents/internal/config"
	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
	"github.com/swiftjob/hiring-agents/internal/negotiation"
)

var negotiateBatchCmd = &cobra.Command{
	Use:   "negotiate-batch",
	Short: "Negotiate every resume in a directory against one job",
	Long: `Runs one negotiation per resume file (*.txt) in a directory against the same job description, a bounded number at a time, and prints a summary table.

Useful for screening a pool of candidates against one opening with identical salary parameters.`,
	RunE: runNegotiateBatch,
}

var (
	batchResumesDir    string
	batchJob           string
	batchDesiredSalary string
	batchMaxBudget     string
	batchMaxTurns      int
	batchConcurrency   int
	batchAPIKey        string
	batchVerbose       bool
)

// batchResult pairs a judged outcome with the resume file it came from.
type batchResult struct {
	Resume  string
	Outcome negotiation.Outcome
}

func init() {
	negotiateBatchCmd.Flags().StringVar(&batchResumesDir, "resumes-dir", "", "Directory of resume .txt files (required)")
	negotiateBatchCmd.Flags().StringVarP(&batchJob, "job", "j", "", "Path to job description text file (required)")
	negotiateBatchCmd.Flags().StringVar(&batchDesiredSalary, "desired-salary", "", "Candidates' target compensation (required)")
	negotiateBatchCmd.Flags().StringVar(&batchMaxBudget, "max-budget", "", "Recruiter's budget ceiling (required)")
	negotiateBatchCmd.Flags().IntVar(&batchMaxTurns, "max-turns", negotiation.DefaultMaxTurns, "Candidate/recruiter turn pairs per run")
	negotiateBatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "Negotiations to run in parallel")
	negotiateBatchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	negotiateBatchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = negotiateBatchCmd.MarkFlagRequired("resumes-dir")
	_ = negotiateBatchCmd.MarkFlagRequired("job")
	_ = negotiateBatchCmd.MarkFlagRequired("desired-salary")
	_ = negotiateBatchCmd.MarkFlagRequired("max-budget")

	rootCmd.AddCommand(negotiateBatchCmd)
}

func runNegotiateBatch(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey, err := resolveAPIKey(batchAPIKey)
	if err != nil {
		return err
	}

	log, err := logger.New(false, batchVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jobDescription, err := readTextFile(batchJob)
	if err != nil {
		return err
	}

	resumes, err := collectTextFiles(batchResumesDir)
	if err != nil {
		return err
	}
	if len(resumes) == 0 {
		return fmt.Errorf("no .txt resume files found in %s", batchResumesDir)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	cfg := config.Config{
		DesiredSalary: batchDesiredSalary,
		MaxBudget:     batchMaxBudget,
		MaxTurns:      batchMaxTurns,
	}

	var mu sync.Mutex
	results := make([]batchResult, 0, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for _, resumePath := range resumes {
		g.Go(func() error {
			resumeText, err := readTextFile(resumePath)
			if err != nil {
				return err
			}

			outcome := runOneNegotiation(gctx, client, log, resumeText, jobDescription, cfg)

			mu.Lock()
			results = append(results, batchResult{Resume: filepath.Base(resumePath), Outcome: outcome})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Resume < results[j].Resume })
	printBatchSummary(results)

	return nil
}

func printBatchSummary(results []batchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RESUME\tSTATUS\tSCORE\tREASON")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Resume, r.Outcome.Status, r.Outcome.Score, r.Outcome.Reason)
	}
	_ = w.Flush()
}

// collectTextFiles lists the .txt files in dir, sorted by name.
func collectTextFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
