package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/agents"
	"github.com/swiftjob/hiring-agents/internal/negotiation"
	"github.com/swiftjob/hiring-agents/internal/store"
)

// StartNegotiationRequest is the payload for POST /negotiations. Salary and
// budget are free-form strings so callers can express ranges and currencies
// the way a job posting would.
type StartNegotiationRequest struct {
	ResumeText      string `json:"resume_text" validate:"required"`
	JobDescription  string `json:"job_description" validate:"required"`
	CandidateSalary string `json:"candidate_salary" validate:"required"`
	HRBudget        string `json:"hr_budget" validate:"required"`
	CandidateID     string `json:"candidate_id,omitempty"`
	JobID           string `json:"job_id,omitempty"`
	Opening         string `json:"opening,omitempty"`
	MaxTurns        int    `json:"max_turns,omitempty" validate:"omitempty,min=1,max=20"`
}

func (s *Server) handleStartNegotiation(w http.ResponseWriter, r *http.Request) {
	var req StartNegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	maxTurns := req.MaxTurns
	if maxTurns == 0 {
		maxTurns = s.maxTurns
	}

	candidate := agents.NewRoleAgent(agents.CandidatePersona(req.ResumeText, req.CandidateSalary), s.llm, s.log)
	recruiter := agents.NewRoleAgent(agents.RecruiterPersona(req.JobDescription, req.HRBudget), s.llm, s.log)

	orch := negotiation.NewOrchestrator(candidate, recruiter, s.judge, maxTurns, s.log)
	outcome := orch.Run(r.Context(), req.Opening, req.JobDescription)

	// Persistence is best effort: the caller already has the full outcome.
	rec := &store.NegotiationRecord{
		ID:          outcome.ID,
		CandidateID: req.CandidateID,
		JobID:       req.JobID,
		Status:      outcome.Status,
		Score:       outcome.Score,
		Reason:      outcome.Reason,
		ChatLog:     outcome.Transcript,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.negStore.InsertNegotiation(r.Context(), rec); err != nil {
		s.log.Error("failed to persist negotiation",
			zap.String("negotiation_id", outcome.ID.String()),
			zap.Error(err),
		)
	}

	s.jsonResponse(w, http.StatusCreated, outcome)
}

func (s *Server) handleGetNegotiation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid negotiation ID")
		return
	}

	rec, err := s.negStore.GetNegotiation(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Negotiation not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleListNegotiations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	records, err := s.negStore.ListNegotiations(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if records == nil {
		records = []store.NegotiationRecord{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"negotiations": records,
		"count":        len(records),
	})
}
