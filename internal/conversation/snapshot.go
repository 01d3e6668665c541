// Package conversation models point-in-time GitHub issue state and rebuilds it
// as an ordered, role-labeled transcript.
package conversation

import "time"

// IssueSnapshot is an immutable record of an issue at fetch time. The fetch
// boundary constructs snapshots only from complete payloads: Number is always
// positive and AuthorLogin is never blank.
type IssueSnapshot struct {
	ID          string
	Number      int
	Title       string
	Body        string // may be empty, never represents "missing"
	AuthorLogin string
	CreatedAt   time.Time

	// Comments are ordered oldest first. A nil slice means comments were not
	// fetched; an empty slice means they were fetched and none exist. Both
	// contribute zero messages to the rebuilt transcript.
	Comments []CommentSnapshot
}

// CommentSnapshot is an immutable record of one issue comment. Within a
// snapshot's comment sequence, CreatedAt is non-decreasing in fetch order.
type CommentSnapshot struct {
	ID          string
	AuthorLogin string
	Body        string
	CreatedAt   time.Time
}

// Role labels who a transcript message is attributed to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a rebuilt transcript. Messages are derived fresh on
// every build and never persisted.
type Message struct {
	Role       Role
	AuthorName string
	Text       string
}
