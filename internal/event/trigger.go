// Package event parses GitHub Actions event payloads into the trigger the
// agent acts on.
package event

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v72/github"
)

// Event names this agent handles. Workflows triggering on anything else are a
// configuration mistake and are rejected up front.
const (
	EventIssues       = "issues"
	EventIssueComment = "issue_comment"
)

// ActionOpened is the issues action that starts a conversation; other actions
// (labeled, edited, closed, ...) never warrant a reply on their own.
const ActionOpened = "opened"

// Trigger describes the event that woke the agent.
type Trigger struct {
	Event       string
	Action      string
	Owner       string
	Repo        string
	IssueNumber int
	ActorLogin  string
	CommentBody string // empty for issue events
}

// Load reads and parses the payload file the Actions runtime points
// GITHUB_EVENT_PATH at.
func Load(eventName, eventPath string) (Trigger, error) {
	raw, err := os.ReadFile(eventPath)
	if err != nil {
		return Trigger{}, fmt.Errorf("failed to read event payload: %w", err)
	}
	return Parse(eventName, raw)
}

// Parse converts a raw webhook payload into a Trigger. Unsupported event names
// and payloads missing the issue or repository are rejected.
func Parse(eventName string, raw []byte) (Trigger, error) {
	switch eventName {
	case EventIssues, EventIssueComment:
	default:
		return Trigger{}, fmt.Errorf("unsupported event %q", eventName)
	}

	parsed, err := github.ParseWebHook(eventName, raw)
	if err != nil {
		return Trigger{}, fmt.Errorf("failed to parse event payload: %w", err)
	}

	var trig Trigger
	switch e := parsed.(type) {
	case *github.IssuesEvent:
		trig = Trigger{
			Event:       EventIssues,
			Action:      e.GetAction(),
			Owner:       e.GetRepo().GetOwner().GetLogin(),
			Repo:        e.GetRepo().GetName(),
			IssueNumber: e.GetIssue().GetNumber(),
			ActorLogin:  e.GetSender().GetLogin(),
		}
	case *github.IssueCommentEvent:
		trig = Trigger{
			Event:       EventIssueComment,
			Action:      e.GetAction(),
			Owner:       e.GetRepo().GetOwner().GetLogin(),
			Repo:        e.GetRepo().GetName(),
			IssueNumber: e.GetIssue().GetNumber(),
			ActorLogin:  e.GetComment().GetUser().GetLogin(),
			CommentBody: e.GetComment().GetBody(),
		}
		if trig.ActorLogin == "" {
			trig.ActorLogin = e.GetSender().GetLogin()
		}
	}

	if trig.IssueNumber <= 0 {
		return Trigger{}, fmt.Errorf("event payload has no issue number")
	}
	if trig.Owner == "" || trig.Repo == "" {
		return Trigger{}, fmt.Errorf("event payload has no repository")
	}
	return trig, nil
}

// Mentioned reports whether the triggering comment addresses the given login.
func (t Trigger) Mentioned(login string) bool {
	return login != "" && strings.Contains(t.CommentBody, "@"+login)
}
