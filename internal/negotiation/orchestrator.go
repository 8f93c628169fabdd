package negotiation

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/agents"
	"github.com/swiftjob/hiring-agents/internal/logger"
)

// DefaultMaxTurns bounds the conversation at 4 candidate replies and 4
// recruiter replies, keeping cost and latency predictable against a
// non-deterministic generator.
const DefaultMaxTurns = 4

// DefaultOpeningMessage is the recruiter-side message that seeds every
// negotiation.
const DefaultOpeningMessage = "I have reviewed your application. Briefly explain why you fit this role."

// Orchestrator runs one bounded negotiation between two role agents and
// hands the finished transcript to the judge. It is single use: construct
// one per run.
type Orchestrator struct {
	candidate agents.Agent
	recruiter agents.Agent
	judge     Judge
	maxTurns  int
	log       *zap.Logger
}

// NewOrchestrator wires the two role agents and the judge into an
// orchestrator. maxTurns values below 1 fall back to DefaultMaxTurns.
func NewOrchestrator(candidate, recruiter agents.Agent, judge Judge, maxTurns int, log *zap.Logger) *Orchestrator {
	if maxTurns < 1 {
		maxTurns = DefaultMaxTurns
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		candidate: candidate,
		recruiter: recruiter,
		judge:     judge,
		maxTurns:  maxTurns,
		log:       log,
	}
}

// Run executes the negotiation loop and returns the judged outcome.
//
// The loop seeds the transcript with the opening message on the recruiter
// side, then alternates candidate and recruiter turns. Terminal tokens are
// matched as case-sensitive substrings: the candidate's agreement token
// short-circuits before the recruiter's turn; the recruiter's hire or reject
// token ends the loop. Token detection only stops the loop — the judge is
// authoritative for the final status, including when the loop exhausts
// maxTurns inconclusively.
//
// Agent failures are not retried; the partial transcript is still handed to
// the judge, and the outcome carries StatusError only when the judge itself
// cannot adjudicate.
func (o *Orchestrator) Run(ctx context.Context, opening, jobDescription string) Outcome {
	if opening == "" {
		opening = DefaultOpeningMessage
	}

	transcript := []TranscriptEntry{
		{Sender: SenderRecruiter, Message: opening},
	}
	lastMessage := opening

	o.log.Info("negotiation started",
		zap.String("candidate", o.candidate.Name()),
		zap.String("recruiter", o.recruiter.Name()),
		zap.Int("max_turns", o.maxTurns),
	)

loop:
	for turn := 0; turn < o.maxTurns; turn++ {
		candidateText, err := o.candidate.Respond(ctx, lastMessage)
		if err != nil {
			o.log.Warn("candidate turn failed, handing partial transcript to judge",
				zap.Int("turn", turn), zap.Error(err))
			break loop
		}
		transcript = append(transcript, TranscriptEntry{Sender: SenderCandidate, Message: candidateText})

		if strings.Contains(candidateText, agents.TokenAgreed) {
			o.log.Info("candidate agreement token detected", zap.Int("turn", turn))
			break loop
		}

		recruiterText, err := o.recruiter.Respond(ctx, candidateText)
		if err != nil {
			o.log.Warn("recruiter turn failed, handing partial transcript to judge",
				zap.Int("turn", turn), zap.Error(err))
			break loop
		}
		transcript = append(transcript, TranscriptEntry{Sender: SenderRecruiter, Message: recruiterText})

		if strings.Contains(recruiterText, agents.TokenHired) || strings.Contains(recruiterText, agents.TokenRejected) {
			o.log.Info("recruiter terminal token detected", zap.Int("turn", turn))
			break loop
		}

		lastMessage = recruiterText
	}

	verdict := o.judge.Evaluate(ctx, transcript, jobDescription)

	outcome := Outcome{
		ID:         uuid.New(),
		Status:     StatusFromDecision(verdict.Decision),
		Score:      verdict.Score,
		Reason:     verdict.Reason,
		Transcript: transcript,
	}

	o.log.Info("negotiation finished",
		zap.String("negotiation_id", outcome.ID.String()),
		zap.String("status", string(outcome.Status)),
		zap.Int("score", outcome.Score),
		zap.Int("transcript_len", len(transcript)),
		zap.String("reason_preview", logger.TruncateForLog(outcome.Reason, 120)),
	)

	return outcome
}
