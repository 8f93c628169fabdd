package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
	"github.com/swiftjob/hiring-agents/internal/prompts"
	"github.com/swiftjob/hiring-agents/internal/schemas"
)

// MaxSkillGaps caps how many gap labels bias question generation.
const MaxSkillGaps = 5

// Neutral confidence assigned when feedback output cannot be validated.
const fallbackConfidenceScore = 70

// Generators is the structured-output dependency of the session controller:
// skill-gap detection, question-set generation, per-answer feedback and the
// final report.
type Generators interface {
	// DetectSkillGaps returns up to MaxSkillGaps labels present in the job
	// description but missing from the resume. It degrades to an empty set,
	// never an error: gaps only bias question selection.
	DetectSkillGaps(ctx context.Context, resumeText, jobDescription string) []string
	// GenerateQuestions produces the fixed question set for a session.
	// Failure here is fatal to session start; there is nothing to interview
	// with.
	GenerateQuestions(ctx context.Context, role, jobDescription string, interviewType Type, difficulty Difficulty, gaps []string) ([]string, error)
	// EvaluateAnswer produces the structured rubric for one answer,
	// substituting the neutral raw-feedback fallback when the output cannot
	// be validated.
	EvaluateAnswer(ctx context.Context, question, answer string) Feedback
	// GenerateReport produces the final aggregate report. Failure is
	// returned as an explicit error so a missing report is distinguishable
	// from a bad score.
	GenerateReport(ctx context.Context, role string, qaLog []QAEntry) (*Report, error)
}

// GeminiGenerators implements Generators over the shared LLM client.
type GeminiGenerators struct {
	client llm.Client
	log    *zap.Logger
}

// NewGeminiGenerators creates the production generator set.
func NewGeminiGenerators(client llm.Client, log *zap.Logger) *GeminiGenerators {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiGenerators{client: client, log: log}
}

// DetectSkillGaps compares resume and job description. Any provider or
// validation failure is logged and collapses to no gaps.
func (g *GeminiGenerators) DetectSkillGaps(ctx context.Context, resumeText, jobDescription string) []string {
	template := prompts.MustGet("interview.json", "detect-skill-gaps")
	prompt := prompts.Format(template, map[string]string{
		"ResumeText":     resumeText,
		"JobDescription": jobDescription,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		g.log.Warn("skill gap detection failed", zap.Error(err))
		return nil
	}

	if err := schemas.Validate(schemas.SkillGaps, raw); err != nil {
		g.log.Warn("skill gap output failed schema validation",
			zap.Error(err),
			zap.String("raw_preview", logger.TruncateForLog(raw, 200)),
		)
		return nil
	}

	var parsed struct {
		SkillGaps []string `json:"skill_gaps"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		g.log.Warn("skill gap output failed to parse", zap.Error(err))
		return nil
	}

	gaps := parsed.SkillGaps
	if len(gaps) > MaxSkillGaps {
		gaps = gaps[:MaxSkillGaps]
	}
	return gaps
}

// GenerateQuestions builds the session's question set, biased toward the
// detected gaps.
func (g *GeminiGenerators) GenerateQuestions(ctx context.Context, role, jobDescription string, interviewType Type, difficulty Difficulty, gaps []string) ([]string, error) {
	gapList := "none detected"
	if len(gaps) > 0 {
		gapList = strings.Join(gaps, ", ")
	}

	template := prompts.MustGet("interview.json", "generate-questions")
	prompt := prompts.Format(template, map[string]string{
		"Role":           role,
		"InterviewType":  string(interviewType),
		"Difficulty":     string(difficulty),
		"JobDescription": jobDescription,
		"SkillGaps":      gapList,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if err := schemas.Validate(schemas.QuestionSet, raw); err != nil {
		return nil, fmt.Errorf("question set failed validation: %w", err)
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("question set failed to parse: %w", err)
	}

	return parsed.Questions, nil
}

// EvaluateAnswer runs the rubric over one question/answer pair.
func (g *GeminiGenerators) EvaluateAnswer(ctx context.Context, question, answer string) Feedback {
	template := prompts.MustGet("interview.json", "evaluate-answer")
	prompt := prompts.Format(template, map[string]string{
		"Question": question,
		"Answer":   answer,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		g.log.Warn("answer evaluation failed", zap.Error(err))
		return fallbackFeedback("")
	}

	if err := schemas.Validate(schemas.Feedback, raw); err != nil {
		g.log.Warn("feedback output failed schema validation",
			zap.Error(err),
			zap.String("raw_preview", logger.TruncateForLog(raw, 200)),
		)
		return fallbackFeedback(raw)
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		g.log.Warn("feedback output failed to parse", zap.Error(err))
		return fallbackFeedback(raw)
	}

	return fb
}

// GenerateReport aggregates the full session log into the final report.
func (g *GeminiGenerators) GenerateReport(ctx context.Context, role string, qaLog []QAEntry) (*Report, error) {
	template := prompts.MustGet("interview.json", "final-report")
	prompt := prompts.Format(template, map[string]string{
		"Role":  role,
		"QALog": formatQALog(qaLog),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	if err := schemas.Validate(schemas.Report, raw); err != nil {
		return nil, fmt.Errorf("report failed validation: %w", err)
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("report failed to parse: %w", err)
	}

	return &report, nil
}

func fallbackFeedback(raw string) Feedback {
	return Feedback{
		RawFeedback:     strings.TrimSpace(raw),
		ConfidenceScore: fallbackConfidenceScore,
	}
}

// formatQALog renders the answered questions for the report prompt.
func formatQALog(qaLog []QAEntry) string {
	var sb strings.Builder
	for i, entry := range qaLog {
		sb.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, entry.Question))
		sb.WriteString(fmt.Sprintf("A%d: %s\n", i+1, entry.Answer))
		if entry.Feedback.Grade != "" {
			sb.WriteString(fmt.Sprintf("Feedback grade: %s\n", entry.Feedback.Grade))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
