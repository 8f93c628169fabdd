// Package agents binds negotiation personas to a text-completion capability.
// An agent is constructed once per negotiation run and owned by it; the
// persona is immutable, only the turn history grows.
package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swiftjob/hiring-agents/internal/llm"
	"github.com/swiftjob/hiring-agents/internal/logger"
)

// Agent is the capability the dialogue orchestrator consumes: accept the
// other party's latest message, return a reply.
type Agent interface {
	Name() string
	Respond(ctx context.Context, message string) (string, error)
}

// Persona is an immutable instruction set for one negotiation party.
type Persona struct {
	Name         string
	Instructions []string
}

type exchange struct {
	incoming string
	reply    string
}

// RoleAgent implements Agent on top of an LLM client. It keeps the turn
// history so each reply is generated in conversation context.
type RoleAgent struct {
	persona Persona
	client  llm.Client
	tier    llm.ModelTier
	log     *zap.Logger
	history []exchange
}

// NewRoleAgent creates an agent for one party of a negotiation.
func NewRoleAgent(persona Persona, client llm.Client, log *zap.Logger) *RoleAgent {
	if log == nil {
		log = zap.NewNop()
	}
	return &RoleAgent{
		persona: persona,
		client:  client,
		tier:    llm.TierStandard,
		log:     log,
	}
}

// Name returns the persona name.
func (a *RoleAgent) Name() string {
	return a.persona.Name
}

// Respond generates the agent's reply to the other party's latest message.
// The exchange is recorded only after a successful generation, so a failed
// call leaves the history unchanged.
func (a *RoleAgent) Respond(ctx context.Context, message string) (string, error) {
	prompt := a.buildTurnPrompt(message)

	a.log.Debug("agent turn request",
		zap.String("agent", a.persona.Name),
		zap.Int("history_len", len(a.history)),
		zap.String("message_preview", logger.TruncateForLog(message, 120)),
	)

	reply, err := a.client.GenerateContent(ctx, prompt, a.tier)
	if err != nil {
		return "", fmt.Errorf("agent %s failed to respond: %w", a.persona.Name, err)
	}
	reply = strings.TrimSpace(reply)

	a.log.Debug("agent turn response",
		zap.String("agent", a.persona.Name),
		zap.String("reply_preview", logger.TruncateForLog(reply, 120)),
	)

	a.history = append(a.history, exchange{incoming: message, reply: reply})
	return reply, nil
}

// buildTurnPrompt assembles persona instructions, prior exchanges and the
// latest incoming message into a single completion prompt.
func (a *RoleAgent) buildTurnPrompt(message string) string {
	var sb strings.Builder

	sb.WriteString("You are playing the role of ")
	sb.WriteString(a.persona.Name)
	sb.WriteString(" in a salary negotiation.\n\nYour instructions:\n")
	for i, instruction := range a.persona.Instructions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, instruction))
	}

	if len(a.history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, ex := range a.history {
			sb.WriteString("Them: ")
			sb.WriteString(ex.incoming)
			sb.WriteString("\nYou: ")
			sb.WriteString(ex.reply)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nTheir latest message:\n")
	sb.WriteString(message)
	sb.WriteString("\n\nReply in character. Output only your reply, no role labels.")

	return sb.String()
}
