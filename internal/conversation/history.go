package conversation

import (
	"fmt"
	"strings"
)

// DefaultSignatureMarker is the literal substring the agent embeds in its own
// comments so later runs can recognize them.
const DefaultSignatureMarker = "<!-- issueagent-signature -->"

// AssistantDisplayName is the fixed name assistant-classified messages are
// attributed to in rebuilt transcripts, distinguishing the agent's voice from
// the raw bot login.
const AssistantDisplayName = "issueagent"

// HistoryBuilder rebuilds an ordered transcript from an issue snapshot. The
// configured bot login and signature marker together determine which comments
// are recognized as the agent's own turns.
type HistoryBuilder struct {
	botLogin        string
	signatureMarker string
}

func NewHistoryBuilder(botLogin, signatureMarker string) HistoryBuilder {
	return HistoryBuilder{
		botLogin:        botLogin,
		signatureMarker: signatureMarker,
	}
}

// BuildHistory converts a snapshot into role-labeled messages: the issue
// itself as the opening user message, then one message per comment in fetch
// order. No comment is ever dropped, so the result always holds exactly
// 1 + len(issue.Comments) messages. The build is a pure function of the
// snapshot and the builder's configuration.
//
// Snapshots violating the IssueSnapshot invariants are a programming error
// upstream and cause a panic.
func (hb HistoryBuilder) BuildHistory(issue IssueSnapshot) []Message {
	if issue.Number <= 0 {
		panic(fmt.Sprintf("issue snapshot has non-positive number %d", issue.Number))
	}
	if strings.TrimSpace(issue.AuthorLogin) == "" {
		panic(fmt.Sprintf("issue snapshot #%d has a blank author login", issue.Number))
	}

	messages := make([]Message, 0, 1+len(issue.Comments))
	messages = append(messages, Message{
		Role:       RoleUser,
		AuthorName: issue.AuthorLogin,
		Text:       renderIssueText(issue.Title, issue.Body),
	})
	for _, comment := range issue.Comments {
		messages = append(messages, hb.classify(comment))
	}
	return messages
}

// classify assigns a role to a single comment. A comment is the assistant's
// iff it was authored by the configured bot login (exact, case-sensitive
// match) and its body carries the signature marker. The marker alone does not
// grant assistant identity, and a bot-authored comment without the marker is
// treated as a plain user message.
func (hb HistoryBuilder) classify(comment CommentSnapshot) Message {
	if comment.AuthorLogin == hb.botLogin && strings.Contains(comment.Body, hb.signatureMarker) {
		return Message{
			Role:       RoleAssistant,
			AuthorName: AssistantDisplayName,
			Text:       comment.Body,
		}
	}
	return Message{
		Role:       RoleUser,
		AuthorName: comment.AuthorLogin,
		Text:       comment.Body,
	}
}

// renderIssueText composes the opening message from the issue title and body,
// both verbatim. An empty body renders as the title alone.
func renderIssueText(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n\n" + body
}
