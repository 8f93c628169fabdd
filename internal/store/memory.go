package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/swiftjob/hiring-agents/internal/interview"
)

// Memory is an in-process implementation of both storage ports, used when
// no database is configured and in tests.
type Memory struct {
	mu           sync.RWMutex
	negotiations map[uuid.UUID]*NegotiationRecord
	sessions     map[uuid.UUID]*interview.Session
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		negotiations: make(map[uuid.UUID]*NegotiationRecord),
		sessions:     make(map[uuid.UUID]*interview.Session),
	}
}

func (m *Memory) InsertNegotiation(_ context.Context, rec *NegotiationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.negotiations[rec.ID] = &cp
	return nil
}

func (m *Memory) GetNegotiation(_ context.Context, id uuid.UUID) (*NegotiationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.negotiations[id]
	if !ok {
		return nil, fmt.Errorf("negotiation %s: %w", id, ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) ListNegotiations(_ context.Context, limit int) ([]NegotiationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]NegotiationRecord, 0, len(m.negotiations))
	for _, rec := range m.negotiations {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *Memory) InsertSession(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *Memory) UpdateSession(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *Memory) GetSession(_ context.Context, id uuid.UUID) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

var (
	_ NegotiationStore       = (*Memory)(nil)
	_ interview.SessionStore = (*Memory)(nil)
)
