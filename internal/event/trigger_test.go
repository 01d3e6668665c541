package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issueOpenedPayload = `{
	"action": "opened",
	"issue": {"number": 7},
	"sender": {"login": "alice"},
	"repository": {"name": "widgets", "owner": {"login": "acme"}}
}`

const issueCommentPayload = `{
	"action": "created",
	"issue": {"number": 7},
	"comment": {"body": "@github-actions[bot] please take a look", "user": {"login": "bob"}},
	"sender": {"login": "bob"},
	"repository": {"name": "widgets", "owner": {"login": "acme"}}
}`

func TestParse_IssueOpened(t *testing.T) {
	trig, err := Parse(EventIssues, []byte(issueOpenedPayload))
	require.NoError(t, err)

	assert.Equal(t, EventIssues, trig.Event)
	assert.Equal(t, "opened", trig.Action)
	assert.Equal(t, "acme", trig.Owner)
	assert.Equal(t, "widgets", trig.Repo)
	assert.Equal(t, 7, trig.IssueNumber)
	assert.Equal(t, "alice", trig.ActorLogin)
	assert.Empty(t, trig.CommentBody)
}

func TestParse_IssueComment(t *testing.T) {
	trig, err := Parse(EventIssueComment, []byte(issueCommentPayload))
	require.NoError(t, err)

	assert.Equal(t, "bob", trig.ActorLogin)
	assert.Equal(t, "@github-actions[bot] please take a look", trig.CommentBody)
}

func TestParse_IssueLabeledActionPassesThrough(t *testing.T) {
	payload := `{
		"action": "labeled",
		"issue": {"number": 7},
		"sender": {"login": "alice"},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`

	trig, err := Parse(EventIssues, []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "labeled", trig.Action)
	assert.NotEqual(t, ActionOpened, trig.Action)
}

func TestParse_CommentActorFallsBackToSender(t *testing.T) {
	payload := `{
		"action": "created",
		"issue": {"number": 7},
		"comment": {"body": "hi"},
		"sender": {"login": "bob"},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`

	trig, err := Parse(EventIssueComment, []byte(payload))
	require.NoError(t, err)

	assert.Equal(t, "bob", trig.ActorLogin)
}

func TestParse_UnsupportedEvent(t *testing.T) {
	_, err := Parse("pull_request", []byte(issueOpenedPayload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event")
}

func TestParse_MalformedPayload(t *testing.T) {
	_, err := Parse(EventIssues, []byte("{not json"))
	assert.Error(t, err)
}

func TestParse_MissingIssueNumber(t *testing.T) {
	_, err := Parse(EventIssues, []byte(`{"action":"opened","repository":{"name":"r","owner":{"login":"o"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issue number")
}

func TestParse_MissingRepository(t *testing.T) {
	_, err := Parse(EventIssues, []byte(`{"action":"opened","issue":{"number":3}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository")
}

func TestLoad_ReadsPayloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(issueCommentPayload), 0o600))

	trig, err := Load(EventIssueComment, path)
	require.NoError(t, err)
	assert.Equal(t, 7, trig.IssueNumber)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(EventIssues, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestMentioned(t *testing.T) {
	trig := Trigger{CommentBody: "hey @github-actions[bot], thoughts?"}

	assert.True(t, trig.Mentioned("github-actions[bot]"))
	assert.False(t, trig.Mentioned("someone-else"))
	assert.False(t, trig.Mentioned(""))
}
