package agents

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftjob/hiring-agents/internal/llm"
)

// fakeClient records prompts and returns canned replies.
type fakeClient struct {
	prompts []string
	replies []string
	err     error
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.prompts = append(f.prompts, prompt)
	reply := "ok"
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return "", fmt.Errorf("not used")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func TestRoleAgentRespond(t *testing.T) {
	client := &fakeClient{replies: []string{"  I bring five years of Go experience.  ", "I can accept $5200. AGREED"}}
	agent := NewRoleAgent(CandidatePersona("resume text", "$5000"), client, nil)

	reply, err := agent.Respond(context.Background(), "Why do you fit this role?")
	require.NoError(t, err)
	assert.Equal(t, "I bring five years of Go experience.", reply)

	// Second turn carries the first exchange as context.
	reply, err = agent.Respond(context.Background(), "We can offer $5200.")
	require.NoError(t, err)
	assert.Contains(t, reply, TokenAgreed)

	require.Len(t, client.prompts, 2)
	assert.NotContains(t, client.prompts[0], "Conversation so far")
	assert.Contains(t, client.prompts[1], "Conversation so far")
	assert.Contains(t, client.prompts[1], "I bring five years of Go experience.")
}

func TestRoleAgentFailureLeavesHistoryUnchanged(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("provider down")}
	agent := NewRoleAgent(RecruiterPersona("job", "$4500"), client, nil)

	_, err := agent.Respond(context.Background(), "hello")
	require.Error(t, err)
	assert.Empty(t, agent.history)
}

func TestPersonaInstructions(t *testing.T) {
	cand := CandidatePersona("RESUME", "$5000")
	assert.Equal(t, "Candidate Representative", cand.Name)
	joined := strings.Join(cand.Instructions, "\n")
	assert.Contains(t, joined, "RESUME")
	assert.Contains(t, joined, "$5000")
	assert.Contains(t, joined, TokenAgreed)

	rec := RecruiterPersona("JOB", "$4500")
	assert.Equal(t, "HR Recruiter", rec.Name)
	joined = strings.Join(rec.Instructions, "\n")
	assert.Contains(t, joined, "JOB")
	assert.Contains(t, joined, "$4500")
	assert.Contains(t, joined, TokenHired)
	assert.Contains(t, joined, TokenRejected)
}
