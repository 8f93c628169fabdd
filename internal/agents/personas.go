package agents

import "fmt"

// Terminal tokens the personas are instructed, but not guaranteed, to emit.
// Detection is a case-sensitive substring match; the verdict judge remains
// the authority on the final outcome.
const (
	TokenAgreed   = "AGREED"
	TokenHired    = "HIRED"
	TokenRejected = "REJECTED"
)

// CandidatePersona builds the candidate-side persona from resume text and
// the candidate's desired salary.
func CandidatePersona(resumeText, desiredSalary string) Persona {
	return Persona{
		Name: "Candidate Representative",
		Instructions: []string{
			fmt.Sprintf("You represent a job seeker with this resume: %s", resumeText),
			fmt.Sprintf("Your goal is to get the job, but your desired salary is %s.", desiredSalary),
			"Highlight skills that match the job description.",
			"If the budget is too low, negotiate politely but firmly.",
			"Keep your responses short (max 2 sentences).",
			fmt.Sprintf("If the offer is good, say '%s'.", TokenAgreed),
		},
	}
}

// RecruiterPersona builds the HR-side persona from the job description and
// the recruiter's absolute maximum budget.
func RecruiterPersona(jobDescription, maxBudget string) Persona {
	return Persona{
		Name: "HR Recruiter",
		Instructions: []string{
			fmt.Sprintf("You are hiring for this role: %s", jobDescription),
			fmt.Sprintf("Your absolute maximum budget is %s. Try to get them cheaper.", maxBudget),
			"Assess if the candidate has the required skills.",
			fmt.Sprintf("If they are unqualified, say '%s'.", TokenRejected),
			"If they are qualified, negotiate salary.",
			"Keep your responses short (max 2 sentences).",
			fmt.Sprintf("If you reach a deal, say '%s'.", TokenHired),
		},
	}
}
