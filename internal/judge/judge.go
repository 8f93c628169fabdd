// Package judge adjudicates finished negotiation transcripts into a
// structured verdict, independent of any terminal tokens the agents emitted
// during the conversation.
package judge

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
	"github.com/swiftjob/hiring-agents/internal/negotiation"
	"github.com/swiftjob/hiring-agents/internal/prompts"
	"github.com/swiftjob/hiring-agents/internal/schemas"
)

// FallbackReason is the reason carried by the error verdict when the judge
// cannot produce a usable structured assessment.
const FallbackReason = "Judge failed"

// Judge evaluates transcripts with a single structured-output call.
type Judge struct {
	client llm.Client
	log    *zap.Logger
}

// New creates a Judge backed by the given LLM client.
func New(client llm.Client, log *zap.Logger) *Judge {
	if log == nil {
		log = zap.NewNop()
	}
	return &Judge{client: client, log: log}
}

// Evaluate runs the rubric prompt over the serialized transcript and job
// description. Provider errors and malformed or schema-violating output all
// collapse into the documented fallback verdict; there is no retry, and no
// error escapes to the caller. The decision field comes from the model
// independently of the score and the two are surfaced as given.
func (j *Judge) Evaluate(ctx context.Context, transcript []negotiation.TranscriptEntry, jobDescription string) negotiation.Verdict {
	template := prompts.MustGet("judge.json", "evaluate-negotiation")
	prompt := prompts.Format(template, map[string]string{
		"Transcript":     negotiation.FormatTranscript(transcript),
		"JobDescription": jobDescription,
	})

	raw, err := j.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		j.log.Warn("judge generation failed", zap.Error(err))
		return fallbackVerdict()
	}

	if err := schemas.Validate(schemas.Verdict, raw); err != nil {
		j.log.Warn("judge output failed schema validation",
			zap.Error(err),
			zap.String("raw_preview", logger.TruncateForLog(raw, 200)),
		)
		return fallbackVerdict()
	}

	var parsed struct {
		Score    int    `json:"score"`
		Reason   string `json:"reason"`
		Decision string `json:"decision"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		j.log.Warn("judge output failed to parse", zap.Error(err))
		return fallbackVerdict()
	}

	return negotiation.Verdict{
		Score:    parsed.Score,
		Reason:   parsed.Reason,
		Decision: negotiation.Decision(parsed.Decision),
	}
}

func fallbackVerdict() negotiation.Verdict {
	return negotiation.Verdict{
		Score:    0,
		Reason:   FallbackReason,
		Decision: negotiation.DecisionError,
	}
}
