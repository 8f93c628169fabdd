package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("judge.json", "evaluate-negotiation")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Transcript}}")
	assert.Contains(t, prompt, "{{.JobDescription}}")

	_, err = Get("judge.json", "missing-key")
	assert.Error(t, err)

	_, err = Get("missing.json", "evaluate-negotiation")
	assert.Error(t, err)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("judge.json", "no-such-prompt")
	})
}

func TestFormat(t *testing.T) {
	template := "Role: {{.Role}}, Difficulty: {{.Difficulty}}"
	result := Format(template, map[string]string{
		"Role":       "Backend Engineer",
		"Difficulty": "hard",
	})
	assert.Equal(t, "Role: Backend Engineer, Difficulty: hard", result)

	// Unknown placeholders are left as-is
	result = Format("{{.Unknown}}", map[string]string{"Role": "x"})
	assert.Equal(t, "{{.Unknown}}", result)
}

func TestInterviewPromptsPresent(t *testing.T) {
	keys, err := List("interview.json")
	require.NoError(t, err)

	joined := strings.Join(keys, ",")
	for _, want := range []string{"detect-skill-gaps", "generate-questions", "evaluate-answer", "final-report"} {
		assert.Contains(t, joined, want)
	}
}
