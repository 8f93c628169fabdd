package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftjob/hiring-agents/internal/interview"
	"github.com/swiftjob/hiring-agents/internal/negotiation"
)

func TestMemoryNegotiations(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := &NegotiationRecord{
		ID:          uuid.New(),
		CandidateID: "cand-1",
		JobID:       "job-1",
		Status:      negotiation.StatusMatch,
		Score:       85,
		Reason:      "strong close",
		ChatLog: []negotiation.TranscriptEntry{
			{Sender: negotiation.SenderRecruiter, Message: "hello"},
			{Sender: negotiation.SenderCandidate, Message: "AGREED"},
		},
		CreatedAt: time.Now(),
	}

	require.NoError(t, m.InsertNegotiation(ctx, rec))

	got, err := m.GetNegotiation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Status, got.Status)
	assert.Equal(t, rec.Score, got.Score)
	assert.Len(t, got.ChatLog, 2)

	_, err = m.GetNegotiation(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListNegotiationsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now()
	var newest uuid.UUID
	for i := 0; i < 5; i++ {
		rec := &NegotiationRecord{
			ID:        uuid.New(),
			Status:    negotiation.StatusRejected,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i == 4 {
			newest = rec.ID
		}
		require.NoError(t, m.InsertNegotiation(ctx, rec))
	}

	records, err := m.ListNegotiations(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, newest, records[0].ID)
}

func TestMemorySessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	s := &interview.Session{
		ID:        uuid.New(),
		Role:      "Backend Engineer",
		Questions: []string{"q1", "q2"},
		Status:    interview.StatusInProgress,
	}
	require.NoError(t, m.InsertSession(ctx, s))

	s.Status = interview.StatusCompleted
	require.NoError(t, m.UpdateSession(ctx, s))

	got, err := m.GetSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusCompleted, got.Status)
	assert.Equal(t, "Backend Engineer", got.Role)
}

func TestMemoryUpdateMissingSession(t *testing.T) {
	m := NewMemory()

	err := m.UpdateSession(context.Background(), &interview.Session{ID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := &NegotiationRecord{ID: uuid.New(), Reason: "original"}
	require.NoError(t, m.InsertNegotiation(ctx, rec))

	got, err := m.GetNegotiation(ctx, rec.ID)
	require.NoError(t, err)
	got.Reason = "mutated"

	again, err := m.GetNegotiation(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Reason)
}
