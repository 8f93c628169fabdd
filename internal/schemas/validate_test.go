package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVerdict(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantError bool
	}{
		{
			name:      "valid hired verdict",
			json:      `{"score": 85, "reason": "Strong fit within budget", "decision": "HIRED"}`,
			wantError: false,
		},
		{
			name:      "valid rejected verdict",
			json:      `{"score": 30, "reason": "Asking far above budget", "decision": "REJECTED"}`,
			wantError: false,
		},
		{
			name:      "score out of range",
			json:      `{"score": 150, "reason": "x", "decision": "HIRED"}`,
			wantError: true,
		},
		{
			name:      "unknown decision value",
			json:      `{"score": 50, "reason": "x", "decision": "MAYBE"}`,
			wantError: true,
		},
		{
			name:      "missing reason",
			json:      `{"score": 50, "decision": "HIRED"}`,
			wantError: true,
		},
		{
			name:      "extra field rejected",
			json:      `{"score": 50, "reason": "x", "decision": "HIRED", "notes": "y"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Verdict, tt.json)
			if tt.wantError {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.NotEmpty(t, validationErr.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFeedback(t *testing.T) {
	valid := `{
		"strengths": ["clear structure"],
		"weaknesses": ["no metrics"],
		"missing_keywords": ["latency"],
		"clarity_score": 80,
		"relevance_score": 75,
		"depth_score": 60,
		"confidence_score": 70,
		"star_method": true,
		"quantified_impact": false,
		"grade": "B+",
		"improved_answer": "A stronger answer."
	}`
	assert.NoError(t, Validate(Feedback, valid))

	// grade must look like a letter grade
	invalid := `{
		"strengths": [], "weaknesses": [],
		"clarity_score": 80, "relevance_score": 75,
		"depth_score": 60, "confidence_score": 70,
		"grade": "excellent"
	}`
	assert.Error(t, Validate(Feedback, invalid))
}

func TestValidateQuestionSet(t *testing.T) {
	assert.NoError(t, Validate(QuestionSet, `{"questions": ["Tell me about a hard bug."]}`))
	assert.Error(t, Validate(QuestionSet, `{"questions": []}`))
	assert.Error(t, Validate(QuestionSet, `{}`))
}

func TestValidateSkillGaps(t *testing.T) {
	assert.NoError(t, Validate(SkillGaps, `{"skill_gaps": ["Kubernetes", "Go"]}`))
	assert.NoError(t, Validate(SkillGaps, `{"skill_gaps": []}`))
	assert.Error(t, Validate(SkillGaps, `{"skill_gaps": [42]}`))
}

func TestValidateUnknownSchema(t *testing.T) {
	err := Validate("nonexistent", `{}`)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nonexistent", loadErr.Name)
}

func TestValidateMalformedDocument(t *testing.T) {
	err := Validate(Verdict, `{not json`)
	assert.Error(t, err)
}
