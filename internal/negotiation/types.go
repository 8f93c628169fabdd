// Package negotiation drives the turn-taking dialogue between the candidate
// and recruiter agents and assembles the judged outcome.
package negotiation

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Sender identifies which side of the negotiation produced a message.
type Sender string

// Transcript sides.
const (
	SenderCandidate Sender = "candidate"
	SenderRecruiter Sender = "recruiter"
)

// TranscriptEntry is one message of the conversation. Entries are append
// only; insertion order is conversation order and determines whose turn is
// next.
type TranscriptEntry struct {
	Sender  Sender `json:"sender"`
	Message string `json:"message"`
}

// Status is the terminal state of a negotiation run.
type Status string

// Negotiation statuses. StatusPending exists only while a run is in flight;
// it is never persisted as a final record.
const (
	StatusMatch    Status = "MATCH"
	StatusRejected Status = "REJECTED"
	StatusPending  Status = "PENDING"
	StatusError    Status = "ERROR"
)

// Decision is the judge's adjudication of a finished transcript.
type Decision string

// Judge decisions.
const (
	DecisionHired    Decision = "HIRED"
	DecisionRejected Decision = "REJECTED"
	DecisionError    Decision = "ERROR"
)

// Verdict is the judge's structured assessment of a transcript. Decision and
// Score are emitted independently by the model and are surfaced as given,
// never reconciled.
type Verdict struct {
	Score    int      `json:"score"`
	Reason   string   `json:"reason"`
	Decision Decision `json:"decision"`
}

// Judge adjudicates a finished (or early-terminated) transcript. A judge
// never fails out: provider or validation errors collapse into a verdict
// with DecisionError.
type Judge interface {
	Evaluate(ctx context.Context, transcript []TranscriptEntry, jobDescription string) Verdict
}

// Outcome is the immutable result of one negotiation run.
type Outcome struct {
	ID         uuid.UUID         `json:"id"`
	Status     Status            `json:"status"`
	Score      int               `json:"score"`
	Reason     string            `json:"reason"`
	Transcript []TranscriptEntry `json:"log"`
}

// StatusFromDecision maps the judge's decision onto the negotiation status.
// The judge is authoritative; in-loop terminal tokens never set the final
// status on their own.
func StatusFromDecision(d Decision) Status {
	switch d {
	case DecisionHired:
		return StatusMatch
	case DecisionRejected:
		return StatusRejected
	default:
		return StatusError
	}
}

// FormatTranscript renders a transcript for embedding in a judge prompt.
func FormatTranscript(transcript []TranscriptEntry) string {
	var sb strings.Builder
	for _, entry := range transcript {
		sb.WriteString(string(entry.Sender))
		sb.WriteString(": ")
		sb.WriteString(entry.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}
