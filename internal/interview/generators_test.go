package interview

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftjob/hiring-agents/internal/llm"
)

// fakeLLM returns queued JSON responses.
type fakeLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", fmt.Errorf("not used")
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no queued response")
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeLLM) Close() error                  { return nil }

func TestDetectSkillGaps(t *testing.T) {
	client := &fakeLLM{responses: []string{`{"skill_gaps": ["Kubernetes", "Terraform"]}`}}
	g := NewGeminiGenerators(client, nil)

	gaps := g.DetectSkillGaps(context.Background(), "resume", "job description")
	assert.Equal(t, []string{"Kubernetes", "Terraform"}, gaps)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "resume")
	assert.Contains(t, client.prompts[0], "job description")
}

func TestDetectSkillGapsCapsAtFive(t *testing.T) {
	client := &fakeLLM{responses: []string{`{"skill_gaps": ["a","b","c","d","e","f","g"]}`}}
	g := NewGeminiGenerators(client, nil)

	gaps := g.DetectSkillGaps(context.Background(), "r", "j")
	assert.Len(t, gaps, MaxSkillGaps)
}

func TestDetectSkillGapsDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
	}{
		{name: "provider error", client: &fakeLLM{err: fmt.Errorf("timeout")}},
		{name: "malformed output", client: &fakeLLM{responses: []string{"no gaps really"}}},
		{name: "wrong shape", client: &fakeLLM{responses: []string{`{"gaps": ["x"]}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeminiGenerators(tt.client, nil)
			assert.Empty(t, g.DetectSkillGaps(context.Background(), "r", "j"))
		})
	}
}

func TestGenerateQuestions(t *testing.T) {
	client := &fakeLLM{responses: []string{`{"questions": ["q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7"]}`}}
	g := NewGeminiGenerators(client, nil)

	questions, err := g.GenerateQuestions(context.Background(), "SRE", "run the platform", TypeSystemDesign, DifficultyExpert, []string{"capacity planning"})
	require.NoError(t, err)
	assert.Len(t, questions, 8)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "system_design")
	assert.Contains(t, client.prompts[0], "expert")
	assert.Contains(t, client.prompts[0], "capacity planning")
	assert.Contains(t, client.prompts[0], "run the platform")
}

func TestGenerateQuestionsFailures(t *testing.T) {
	// Provider error propagates.
	g := NewGeminiGenerators(&fakeLLM{err: fmt.Errorf("down")}, nil)
	_, err := g.GenerateQuestions(context.Background(), "r", "j", TypeMixed, DifficultyEasy, nil)
	assert.Error(t, err)

	// Empty question set fails validation.
	g = NewGeminiGenerators(&fakeLLM{responses: []string{`{"questions": []}`}}, nil)
	_, err = g.GenerateQuestions(context.Background(), "r", "j", TypeMixed, DifficultyEasy, nil)
	assert.Error(t, err)
}

func TestEvaluateAnswer(t *testing.T) {
	valid := `{
		"strengths": ["specific"],
		"weaknesses": ["short"],
		"missing_keywords": ["latency"],
		"clarity_score": 80,
		"relevance_score": 85,
		"depth_score": 60,
		"confidence_score": 72,
		"star_method": true,
		"quantified_impact": false,
		"grade": "B",
		"improved_answer": "better answer"
	}`
	g := NewGeminiGenerators(&fakeLLM{responses: []string{valid}}, nil)

	fb := g.EvaluateAnswer(context.Background(), "question", "answer")
	assert.Equal(t, "B", fb.Grade)
	assert.Equal(t, 72, fb.ConfidenceScore)
	assert.True(t, fb.STARMethod)
	assert.Empty(t, fb.RawFeedback)
}

func TestEvaluateAnswerFallback(t *testing.T) {
	// Unvalidatable output becomes the neutral raw-feedback fallback, not a
	// zero score.
	raw := "Good answer overall, but add metrics."
	g := NewGeminiGenerators(&fakeLLM{responses: []string{raw}}, nil)

	fb := g.EvaluateAnswer(context.Background(), "q", "a")
	assert.Equal(t, raw, fb.RawFeedback)
	assert.Equal(t, 70, fb.ConfidenceScore)
	assert.Empty(t, fb.Grade)
}

func TestGenerateReport(t *testing.T) {
	valid := `{
		"overall_score": 81,
		"grade": "B+",
		"summary": "Strong technical depth.",
		"key_strengths": ["system design"],
		"areas_for_improvement": ["behavioral framing"],
		"recommendation": "Practice STAR answers."
	}`
	g := NewGeminiGenerators(&fakeLLM{responses: []string{valid}}, nil)

	report, err := g.GenerateReport(context.Background(), "SRE", []QAEntry{
		{Question: "q0", Answer: "a0", Feedback: Feedback{Grade: "B"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 81, report.OverallScore)
	assert.Equal(t, "B+", report.Grade)
	assert.Empty(t, report.Error)
}

func TestGenerateReportFailureIsExplicit(t *testing.T) {
	g := NewGeminiGenerators(&fakeLLM{responses: []string{"not a report"}}, nil)

	report, err := g.GenerateReport(context.Background(), "SRE", nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}
