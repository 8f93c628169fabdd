package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/swiftjob/hiring-agents/internal/interview"
)

// Postgres implements NegotiationStore and the interview session port over
// a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// InsertNegotiation stores a finished negotiation outcome.
func (p *Postgres) InsertNegotiation(ctx context.Context, rec *NegotiationRecord) error {
	chatLog, err := json.Marshal(rec.ChatLog)
	if err != nil {
		return fmt.Errorf("failed to marshal chat log: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO negotiations (id, candidate_id, job_id, status, score, reason, chat_log)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.CandidateID, rec.JobID, rec.Status, rec.Score, rec.Reason, chatLog,
	)
	if err != nil {
		return fmt.Errorf("failed to insert negotiation: %w", err)
	}
	return nil
}

// GetNegotiation retrieves a negotiation outcome by id.
func (p *Postgres) GetNegotiation(ctx context.Context, id uuid.UUID) (*NegotiationRecord, error) {
	var rec NegotiationRecord
	var chatLog []byte

	err := p.pool.QueryRow(ctx,
		`SELECT id, candidate_id, job_id, status, score, reason, chat_log, created_at
		 FROM negotiations WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.CandidateID, &rec.JobID, &rec.Status, &rec.Score, &rec.Reason, &chatLog, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("negotiation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get negotiation: %w", err)
	}

	if len(chatLog) > 0 {
		if err := json.Unmarshal(chatLog, &rec.ChatLog); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat log: %w", err)
		}
	}
	return &rec, nil
}

// ListNegotiations retrieves recent negotiation outcomes.
func (p *Postgres) ListNegotiations(ctx context.Context, limit int) ([]NegotiationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := p.pool.Query(ctx,
		`SELECT id, candidate_id, job_id, status, score, reason, chat_log, created_at
		 FROM negotiations ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list negotiations: %w", err)
	}
	defer rows.Close()

	var records []NegotiationRecord
	for rows.Next() {
		var rec NegotiationRecord
		var chatLog []byte
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &rec.JobID, &rec.Status, &rec.Score, &rec.Reason, &chatLog, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan negotiation: %w", err)
		}
		if len(chatLog) > 0 {
			if err := json.Unmarshal(chatLog, &rec.ChatLog); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chat log: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// InsertSession stores a new interview session as an opaque JSON record.
func (p *Postgres) InsertSession(ctx context.Context, s *interview.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, status, data)
		 VALUES ($1, $2, $3)`,
		s.ID, s.Status, data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// UpdateSession replaces the stored session record.
func (p *Postgres) UpdateSession(ctx context.Context, s *interview.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	result, err := p.pool.Exec(ctx,
		`UPDATE interview_sessions SET status = $1, data = $2, updated_at = NOW() WHERE id = $3`,
		s.Status, data, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

// GetSession retrieves an interview session by id.
func (p *Postgres) GetSession(ctx context.Context, id uuid.UUID) (*interview.Session, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session interview.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Compile-time checks that Postgres satisfies both ports.
var (
	_ NegotiationStore       = (*Postgres)(nil)
	_ interview.SessionStore = (*Postgres)(nil)
)
