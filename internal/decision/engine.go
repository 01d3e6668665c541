// Package decision holds the policy that decides whether the agent must reply
// to a triggering event.
package decision

import (
	"fmt"

	"github.com/issueagent/issueagent/internal/conversation"
)

// Decision is the policy output consumed by the generation boundary.
type Decision string

const (
	MustRespond Decision = "must_respond"
	NoAction    Decision = "no_action"
)

// Result is produced once per triggering event and consumed once by the
// generator. The rationale is for logs and traces, never posted.
type Result struct {
	Decision  Decision
	Rationale string
}

// TriggerContext carries the event metadata the policy needs beyond the
// transcript itself.
type TriggerContext struct {
	// IssueOpened is true when the triggering event is the issue being opened,
	// as opposed to a comment on an existing issue.
	IssueOpened bool
	// ActorLogin identifies who caused the triggering event.
	ActorLogin string
	// Mentioned is true when the triggering comment addresses the agent
	// directly.
	Mentioned bool
}

// Engine decides whether a reply is required for the current event.
type Engine struct {
	botLogin string
}

func NewEngine(botLogin string) Engine {
	return Engine{botLogin: botLogin}
}

// Decide is called exactly once per triggering event, after the full history
// has been built. It never mutates the history it receives.
func (e Engine) Decide(history []conversation.Message, trig TriggerContext) Result {
	if trig.ActorLogin == e.botLogin {
		return Result{NoAction, "triggering event was caused by the agent itself"}
	}
	if trig.IssueOpened {
		return Result{MustRespond, "a new issue was opened"}
	}
	if trig.Mentioned {
		return Result{MustRespond, fmt.Sprintf("agent was mentioned by %s", trig.ActorLogin)}
	}
	if len(history) > 0 && history[len(history)-1].Role == conversation.RoleAssistant {
		return Result{NoAction, "agent already holds the latest turn"}
	}
	for _, msg := range history {
		if msg.Role == conversation.RoleAssistant {
			return Result{MustRespond, "user replied in a conversation the agent is part of"}
		}
	}
	return Result{NoAction, "no mention and no open conversation with the agent"}
}
