package githubctx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuerier populates the query struct via fill, or fails with err.
type fakeQuerier struct {
	fill func(q *issueQuery)
	err  error

	gotVars map[string]interface{}
}

func (f *fakeQuerier) Query(_ context.Context, q interface{}, variables map[string]interface{}) error {
	f.gotVars = variables
	if f.err != nil {
		return f.err
	}
	if f.fill != nil {
		f.fill(q.(*issueQuery))
	}
	return nil
}

func fillIssue(q *issueQuery) {
	issue := &q.Repository.Issue
	issue.ID = "I_abc"
	issue.Number = 12
	issue.Title = "Broken widget"
	issue.Body = "It broke"
	issue.Author.Login = "alice"
	issue.CreatedAt = githubv4.DateTime{Time: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)}

	comment := commentNode{
		ID:        "IC_1",
		Body:      "me too",
		CreatedAt: githubv4.DateTime{Time: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)},
	}
	comment.Author.Login = "bob"
	issue.Comments.Nodes = []commentNode{comment}
}

func TestFetchIssueContext_Success(t *testing.T) {
	querier := &fakeQuerier{fill: fillIssue}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 10)

	require.True(t, result.OK())
	assert.Equal(t, "I_abc", result.Snapshot.ID)
	assert.Equal(t, 12, result.Snapshot.Number)
	assert.Equal(t, "Broken widget", result.Snapshot.Title)
	assert.Equal(t, "alice", result.Snapshot.AuthorLogin)
	require.Len(t, result.Snapshot.Comments, 1)
	assert.Equal(t, "bob", result.Snapshot.Comments[0].AuthorLogin)
	assert.Equal(t, "me too", result.Snapshot.Comments[0].Body)
}

func TestFetchIssueContext_NoCommentsYieldsEmptySlice(t *testing.T) {
	querier := &fakeQuerier{fill: func(q *issueQuery) {
		fillIssue(q)
		q.Repository.Issue.Comments.Nodes = nil
	}}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 10)

	require.True(t, result.OK())
	// Fetched-but-empty, not absent
	assert.NotNil(t, result.Snapshot.Comments)
	assert.Empty(t, result.Snapshot.Comments)
}

func TestFetchIssueContext_PageSizeClamped(t *testing.T) {
	querier := &fakeQuerier{fill: fillIssue}
	client := NewClient(querier)

	client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 500)
	assert.Equal(t, githubv4.Int(20), querier.gotVars["pageSize"])

	client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 0)
	assert.Equal(t, githubv4.Int(1), querier.gotVars["pageSize"])

	client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 7)
	assert.Equal(t, githubv4.Int(7), querier.gotVars["pageSize"])
}

func TestFetchIssueContext_BlankIssueAuthorRejected(t *testing.T) {
	querier := &fakeQuerier{fill: func(q *issueQuery) {
		fillIssue(q)
		q.Repository.Issue.Author.Login = ""
	}}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 10)

	assert.Equal(t, StatusGraphQLFailure, result.Status)
	assert.Contains(t, result.Message, "blank author")
}

func TestFetchIssueContext_BlankCommentAuthorRejected(t *testing.T) {
	querier := &fakeQuerier{fill: func(q *issueQuery) {
		fillIssue(q)
		q.Repository.Issue.Comments.Nodes[0].Author.Login = ""
	}}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 10)

	assert.Equal(t, StatusGraphQLFailure, result.Status)
}

func TestFetchIssueContext_MissingIssueRejected(t *testing.T) {
	// The API answers, but the issue struct stays zero (e.g. issue not found
	// surfaced as a partial response)
	querier := &fakeQuerier{}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 999, 10)

	assert.Equal(t, StatusGraphQLFailure, result.Status)
}

func TestClassifyQueryError(t *testing.T) {
	denied := classifyQueryError(fmt.Errorf("non-200 OK status code: 403 Forbidden"))
	assert.Equal(t, StatusPermissionDenied, denied.Status)

	unauthorized := classifyQueryError(fmt.Errorf("non-200 OK status code: 401 Unauthorized"))
	assert.Equal(t, StatusPermissionDenied, unauthorized.Status)

	server := classifyQueryError(fmt.Errorf("non-200 OK status code: 502 Bad Gateway"))
	assert.Equal(t, StatusUnexpectedError, server.Status)

	gql := classifyQueryError(fmt.Errorf("Could not resolve to an Issue with the number of 999."))
	assert.Equal(t, StatusGraphQLFailure, gql.Status)

	canceled := classifyQueryError(fmt.Errorf("query failed: %w", context.Canceled))
	assert.Equal(t, StatusUnexpectedError, canceled.Status)
}

func TestFetchIssueContext_QueryErrorNeverYieldsSnapshot(t *testing.T) {
	querier := &fakeQuerier{err: errors.New("boom")}
	client := NewClient(querier)

	result := client.FetchIssueContext(context.Background(), "acme", "widgets", 12, 10)

	assert.False(t, result.OK())
	assert.Zero(t, result.Snapshot)
}
