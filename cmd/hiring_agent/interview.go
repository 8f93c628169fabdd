package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/swiftjob/hiring-agents/internal/interview"
	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
	"github.com/swiftjob/hiring-agents/internal/store"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive mock interview in the terminal",
	Long: `Starts a mock interview session: questions are generated for the role (biased toward skill gaps detected between the resume and the job description when both are given), each answer gets structured feedback, and a final report closes the session.`,
	RunE: runInterview,
}

var (
	ivRole       string
	ivResume     string
	ivJob        string
	ivType       string
	ivDifficulty string
	ivAPIKey     string
	ivVerbose    bool
)

func init() {
	interviewCmd.Flags().StringVar(&ivRole, "role", "", "Target role, e.g. \"Backend Engineer\" (required)")
	interviewCmd.Flags().StringVarP(&ivResume, "resume", "r", "", "Path to resume text file (optional, enables skill gap detection)")
	interviewCmd.Flags().StringVarP(&ivJob, "job", "j", "", "Path to job description text file (optional)")
	interviewCmd.Flags().StringVar(&ivType, "type", "", "Interview type: behavioral, technical, case_study, system_design, mixed (prompted if omitted)")
	interviewCmd.Flags().StringVar(&ivDifficulty, "difficulty", "", "Difficulty: easy, medium, hard, expert (prompted if omitted)")
	interviewCmd.Flags().StringVar(&ivAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	interviewCmd.Flags().BoolVarP(&ivVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = interviewCmd.MarkFlagRequired("role")

	rootCmd.AddCommand(interviewCmd)
}

func runInterview(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey, err := resolveAPIKey(ivAPIKey)
	if err != nil {
		return err
	}

	log, err := logger.New(false, ivVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	interviewType, err := pickOption(ivType, "Interview type", []string{
		string(interview.TypeMixed),
		string(interview.TypeBehavioral),
		string(interview.TypeTechnical),
		string(interview.TypeCaseStudy),
		string(interview.TypeSystemDesign),
	})
	if err != nil {
		return err
	}

	difficulty, err := pickOption(ivDifficulty, "Difficulty", []string{
		string(interview.DifficultyMedium),
		string(interview.DifficultyEasy),
		string(interview.DifficultyHard),
		string(interview.DifficultyExpert),
	})
	if err != nil {
		return err
	}

	var resumeText, jobDescription string
	if ivResume != "" {
		if resumeText, err = readTextFile(ivResume); err != nil {
			return err
		}
	}
	if ivJob != "" {
		if jobDescription, err = readTextFile(ivJob); err != nil {
			return err
		}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	controller := interview.NewController(store.NewMemory(), interview.NewGeminiGenerators(client, log), log)

	fmt.Println("Generating questions...")
	session, err := controller.Start(ctx, interview.StartParams{
		Role:           ivRole,
		JobDescription: jobDescription,
		ResumeText:     resumeText,
		InterviewType:  interview.Type(interviewType),
		Difficulty:     interview.Difficulty(difficulty),
	})
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	if len(session.Questions) == 0 {
		return fmt.Errorf("no questions were generated")
	}
	if len(session.SkillGaps) > 0 {
		fmt.Printf("Focus areas: %s\n", strings.Join(session.SkillGaps, ", "))
	}
	fmt.Printf("%d questions, %s difficulty. Good luck!\n\n", len(session.Questions), difficulty)

	question := session.Questions[0]
	number := 1
	for {
		fmt.Printf("Q%d: %s\n", number, question)

		answer, err := promptAnswer()
		if err != nil {
			return err
		}

		result, err := controller.SubmitAnswer(ctx, session.ID, answer)
		if err != nil {
			return fmt.Errorf("failed to process answer: %w", err)
		}

		if result.Feedback != nil {
			printFeedback(result.Feedback)
		}

		if !result.HasNext {
			printReport(result.FinalReport)
			return nil
		}

		question = result.NextQuestion
		number++
		fmt.Println()
	}
}

// pickOption returns the flag value when set, otherwise prompts interactively.
// The first option is the default.
func pickOption(flagValue, label string, options []string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	prompt := promptui.Select{
		Label: label,
		Items: options,
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return choice, nil
}

func promptAnswer() (string, error) {
	prompt := promptui.Prompt{
		Label: "Your answer",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("answer cannot be empty")
			}
			return nil
		},
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return answer, nil
}

func printFeedback(fb *interview.Feedback) {
	fmt.Println("--- Feedback ---")
	if fb.Grade != "" {
		fmt.Printf("Grade: %s (confidence %d)\n", fb.Grade, fb.ConfidenceScore)
	}
	if len(fb.Strengths) > 0 {
		fmt.Printf("Strengths: %s\n", strings.Join(fb.Strengths, "; "))
	}
	if len(fb.Weaknesses) > 0 {
		fmt.Printf("Weaknesses: %s\n", strings.Join(fb.Weaknesses, "; "))
	}
	if len(fb.MissingKeywords) > 0 {
		fmt.Printf("Missing keywords: %s\n", strings.Join(fb.MissingKeywords, ", "))
	}
	if fb.ImprovedAnswer != "" {
		fmt.Printf("Suggested answer: %s\n", fb.ImprovedAnswer)
	}
	if fb.RawFeedback != "" {
		fmt.Printf("Feedback: %s\n", fb.RawFeedback)
	}
	fmt.Println("----------------")
}

func printReport(report *interview.Report) {
	fmt.Println("\n=== Final Report ===")
	if report == nil {
		fmt.Println("No report available.")
		return
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode report: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
