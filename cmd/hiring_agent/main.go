// Package main provides the entry point for the hiring agents CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hiring_agent",
	Short: "Agent-driven salary negotiations and mock interviews",
	Long:  "hiring_agent simulates salary negotiations between a candidate agent and a recruiter agent, judges the outcome, and runs interactive mock interview sessions with per-answer feedback.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readTextFile reads a required input file and trims surrounding whitespace.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("file %s is empty", path)
	}
	return text, nil
}

// resolveAPIKey returns the flag value if set, otherwise GEMINI_API_KEY.
func resolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("API key required: pass --api-key or set GEMINI_API_KEY")
}
