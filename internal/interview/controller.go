package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionStore is the persistence port the controller writes sessions
// through. Implementations live in the store package; tests use an
// in-memory fake.
type SessionStore interface {
	InsertSession(ctx context.Context, s *Session) error
	UpdateSession(ctx context.Context, s *Session) error
	// GetSession returns store.ErrNotFound (wrapped) for unknown ids.
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
}

// Controller is the interview session state machine. Sessions are fully
// partitioned by id; the controller holds no per-session state of its own.
type Controller struct {
	store SessionStore
	gen   Generators
	log   *zap.Logger
	now   func() time.Time
}

// NewController wires the generator set and session store.
func NewController(store SessionStore, gen Generators, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store: store,
		gen:   gen,
		log:   log,
		now:   time.Now,
	}
}

// StartParams are the inputs for a new session.
type StartParams struct {
	Role           string
	JobDescription string
	ResumeText     string
	InterviewType  Type
	Difficulty     Difficulty
}

// AnswerResult is the outcome of one SubmitAnswer call.
type AnswerResult struct {
	Feedback       *Feedback `json:"feedback,omitempty"`
	HasNext        bool      `json:"has_next"`
	QuestionNumber int       `json:"question_number,omitempty"`
	NextQuestion   string    `json:"next_question,omitempty"`
	FinalReport    *Report   `json:"final_report,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// Start creates a session: detect skill gaps, generate the question set
// biased toward them, persist IN_PROGRESS, return the session with the
// first question pending. Question generation failure is fatal; a
// persistence failure is logged but does not block the caller.
func (c *Controller) Start(ctx context.Context, p StartParams) (*Session, error) {
	if p.Role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if p.InterviewType == "" {
		p.InterviewType = TypeMixed
	}
	if p.Difficulty == "" {
		p.Difficulty = DifficultyMedium
	}

	gaps := c.gen.DetectSkillGaps(ctx, p.ResumeText, p.JobDescription)
	if len(gaps) > MaxSkillGaps {
		gaps = gaps[:MaxSkillGaps]
	}

	questions, err := c.gen.GenerateQuestions(ctx, p.Role, p.JobDescription, p.InterviewType, p.Difficulty, gaps)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question generator returned an empty set")
	}

	now := c.now()
	session := &Session{
		ID:             uuid.New(),
		Role:           p.Role,
		JobDescription: p.JobDescription,
		InterviewType:  p.InterviewType,
		Difficulty:     p.Difficulty,
		Questions:      questions,
		SkillGaps:      gaps,
		Status:         StatusInProgress,
		CreatedAt:      now,
		AskedAt:        now,
	}

	if err := c.store.InsertSession(ctx, session); err != nil {
		c.log.Error("failed to persist interview session",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}

	c.log.Info("interview session started",
		zap.String("session_id", session.ID.String()),
		zap.String("role", p.Role),
		zap.String("type", string(p.InterviewType)),
		zap.String("difficulty", string(p.Difficulty)),
		zap.Int("questions", len(questions)),
		zap.Strings("skill_gaps", gaps),
	)

	return session, nil
}

// SubmitAnswer advances the session by at most one question. The question
// pointer is always derived from len(QALog); appending the QAEntry is the
// only mutation that moves it. Once the log covers every question, the
// final report is generated and the session flips to COMPLETED exactly
// once; later calls are idempotent tail calls that mutate nothing.
func (c *Controller) SubmitAnswer(ctx context.Context, id uuid.UUID, answer string) (*AnswerResult, error) {
	session, err := c.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Status == StatusCompleted || session.Exhausted() {
		return &AnswerResult{
			HasNext:     false,
			Message:     "no more questions",
			FinalReport: session.FinalReport,
		}, nil
	}

	idx := session.CurrentIndex()
	question := session.Questions[idx]

	feedback := c.gen.EvaluateAnswer(ctx, question, answer)

	entry := QAEntry{
		Question:  question,
		Answer:    answer,
		Feedback:  feedback,
		TimeTaken: c.now().Sub(session.AskedAt),
	}
	session.QALog = append(session.QALog, entry)

	if session.Exhausted() {
		report, err := c.gen.GenerateReport(ctx, session.Role, session.QALog)
		if err != nil {
			// The session still completes, with an error-shaped report so a
			// missing assessment stays visible downstream.
			c.log.Error("final report generation failed",
				zap.String("session_id", session.ID.String()), zap.Error(err))
			report = &Report{Error: err.Error()}
		}
		session.FinalReport = report
		session.Status = StatusCompleted

		c.persist(ctx, session)

		c.log.Info("interview session completed",
			zap.String("session_id", session.ID.String()),
			zap.Int("questions_answered", len(session.QALog)),
		)

		return &AnswerResult{
			Feedback:    &entry.Feedback,
			HasNext:     false,
			FinalReport: report,
		}, nil
	}

	session.AskedAt = c.now()
	c.persist(ctx, session)

	next := session.CurrentIndex()
	return &AnswerResult{
		Feedback:       &entry.Feedback,
		HasNext:        true,
		QuestionNumber: next + 1,
		NextQuestion:   session.Questions[next],
	}, nil
}

// Get returns a stored session, for resume and inspection.
func (c *Controller) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return c.store.GetSession(ctx, id)
}

// persist updates the stored session. Failures are logged, never surfaced:
// the computed result is still the contract's output.
func (c *Controller) persist(ctx context.Context, session *Session) {
	if err := c.store.UpdateSession(ctx, session); err != nil {
		c.log.Error("failed to update interview session",
			zap.String("session_id", session.ID.String()), zap.Error(err))
	}
}
