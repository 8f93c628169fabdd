// Package store persists negotiation outcomes and interview sessions.
// It provides a PostgreSQL implementation and an in-memory one behind the
// same ports, so the core flows stay storage-agnostic.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swiftjob/hiring-agents/internal/negotiation"
)

// ErrNotFound is returned for lookups of unknown negotiation or session ids.
var ErrNotFound = errors.New("record not found")

// NegotiationRecord is the persisted form of a negotiation outcome.
// Records are written once, after the judge completes; a PENDING status is
// never persisted.
type NegotiationRecord struct {
	ID          uuid.UUID                      `json:"id"`
	CandidateID string                         `json:"candidate_id"`
	JobID       string                         `json:"job_id"`
	Status      negotiation.Status             `json:"status"`
	Score       int                            `json:"score"`
	Reason      string                         `json:"reason"`
	ChatLog     []negotiation.TranscriptEntry  `json:"chat_log"`
	CreatedAt   time.Time                      `json:"created_at"`
}

// NegotiationStore is the persistence port for negotiation outcomes.
type NegotiationStore interface {
	InsertNegotiation(ctx context.Context, rec *NegotiationRecord) error
	GetNegotiation(ctx context.Context, id uuid.UUID) (*NegotiationRecord, error)
	ListNegotiations(ctx context.Context, limit int) ([]NegotiationRecord, error)
}
