// Package interview runs structured multi-question mock interview sessions
// with per-answer feedback and a final aggregate report.
package interview

import (
	"time"

	"github.com/google/uuid"
)

// Type is the interview style the question generator targets.
type Type string

// Supported interview types.
const (
	TypeBehavioral   Type = "behavioral"
	TypeTechnical    Type = "technical"
	TypeCaseStudy    Type = "case_study"
	TypeSystemDesign Type = "system_design"
	TypeMixed        Type = "mixed"
)

// Difficulty is the requested question difficulty.
type Difficulty string

// Supported difficulties.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Status is the session lifecycle state. IN_PROGRESS is the sole initial
// state and COMPLETED is terminal.
type Status string

// Session statuses.
const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Feedback is the structured rubric for a single answer. When the generator
// output cannot be validated, only RawFeedback and ConfidenceScore are set
// (the neutral fallback), so one malformed response does not tank session
// averages.
type Feedback struct {
	Strengths        []string `json:"strengths,omitempty"`
	Weaknesses       []string `json:"weaknesses,omitempty"`
	MissingKeywords  []string `json:"missing_keywords,omitempty"`
	ClarityScore     int      `json:"clarity_score,omitempty"`
	RelevanceScore   int      `json:"relevance_score,omitempty"`
	DepthScore       int      `json:"depth_score,omitempty"`
	ConfidenceScore  int      `json:"confidence_score"`
	STARMethod       bool     `json:"star_method,omitempty"`
	QuantifiedImpact bool     `json:"quantified_impact,omitempty"`
	Grade            string   `json:"grade,omitempty"`
	ImprovedAnswer   string   `json:"improved_answer,omitempty"`
	RawFeedback      string   `json:"raw_feedback,omitempty"`
}

// Report is the final aggregate assessment. A failed generation is recorded
// as a report with only Error set, which is visibly distinct from a scored
// report but still marks the session complete.
type Report struct {
	OverallScore        int      `json:"overall_score,omitempty"`
	Grade               string   `json:"grade,omitempty"`
	Summary             string   `json:"summary,omitempty"`
	KeyStrengths        []string `json:"key_strengths,omitempty"`
	AreasForImprovement []string `json:"areas_for_improvement,omitempty"`
	Recommendation      string   `json:"recommendation,omitempty"`
	Error               string   `json:"error,omitempty"`
}

// QAEntry is one answered question. Entries are append only; the length of
// the log is the authoritative pointer into Questions.
type QAEntry struct {
	Question  string        `json:"question"`
	Answer    string        `json:"answer"`
	Feedback  Feedback      `json:"feedback"`
	TimeTaken time.Duration `json:"time_taken,omitempty"`
}

// Session is one mock interview. Questions and SkillGaps are fixed at start;
// QALog grows by exactly one entry per accepted answer.
type Session struct {
	ID             uuid.UUID  `json:"id"`
	Role           string     `json:"role"`
	JobDescription string     `json:"job_description"`
	InterviewType  Type       `json:"interview_type"`
	Difficulty     Difficulty `json:"difficulty"`
	Questions      []string   `json:"questions"`
	SkillGaps      []string   `json:"skill_gaps"`
	QALog          []QAEntry  `json:"qa_log"`
	Status         Status     `json:"status"`
	FinalReport    *Report    `json:"final_report,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	AskedAt        time.Time  `json:"asked_at"`
}

// CurrentIndex is the derived question pointer. It is never stored
// independently, which keeps it from desynchronizing from the log.
func (s *Session) CurrentIndex() int {
	return len(s.QALog)
}

// Exhausted reports whether every question has been answered.
func (s *Session) Exhausted() bool {
	return s.CurrentIndex() >= len(s.Questions)
}
