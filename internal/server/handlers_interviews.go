package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/swiftjob/hiring-agents/internal/interview"
	"github.com/swiftjob/hiring-agents/internal/store"
)

// StartInterviewRequest is the payload for POST /interviews.
type StartInterviewRequest struct {
	Role           string `json:"role" validate:"required"`
	JobDescription string `json:"job_description,omitempty"`
	ResumeText     string `json:"resume_text,omitempty"`
	InterviewType  string `json:"interview_type,omitempty" validate:"omitempty,oneof=behavioral technical case_study system_design mixed"`
	Difficulty     string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard expert"`
}

// SubmitAnswerRequest is the payload for POST /interviews/{id}/answers.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// startInterviewResponse returns the session with only the first question
// exposed; later questions are revealed one at a time as answers arrive.
type startInterviewResponse struct {
	InterviewID     uuid.UUID            `json:"interview_id"`
	Role            string               `json:"role"`
	InterviewType   interview.Type       `json:"interview_type"`
	Difficulty      interview.Difficulty `json:"difficulty"`
	SkillGaps       []string             `json:"skill_gaps_detected,omitempty"`
	QuestionNumber  int                  `json:"question_number"`
	TotalQuestions  int                  `json:"total_questions"`
	CurrentQuestion string               `json:"current_question"`
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	session, err := s.interviews.Start(r.Context(), interview.StartParams{
		Role:           req.Role,
		JobDescription: req.JobDescription,
		ResumeText:     req.ResumeText,
		InterviewType:  interview.Type(req.InterviewType),
		Difficulty:     interview.Difficulty(req.Difficulty),
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start interview: "+err.Error())
		return
	}

	resp := startInterviewResponse{
		InterviewID:    session.ID,
		Role:           session.Role,
		InterviewType:  session.InterviewType,
		Difficulty:     session.Difficulty,
		SkillGaps:      session.SkillGaps,
		QuestionNumber: 1,
		TotalQuestions: len(session.Questions),
	}
	if len(session.Questions) > 0 {
		resp.CurrentQuestion = session.Questions[0]
	}

	s.jsonResponse(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid interview ID")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	result, err := s.interviews.SubmitAnswer(r.Context(), id, req.Answer)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Interview not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to process answer: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid interview ID")
		return
	}

	session, err := s.interviews.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Interview not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, session)
}
