package githubctx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"

	"github.com/issueagent/issueagent/internal/conversation"
)

// Comment page bounds. Only the trailing window of comments is ever fetched;
// callers must not assume more than maxCommentPageSize comments are present
// even when the issue holds more.
const (
	minCommentPageSize = 1
	maxCommentPageSize = 20
)

// issueQuery is the GraphQL shape for an issue and its trailing comments.
// comments(last: N) returns the newest N comments in ascending creation
// order, which is the fetch order the snapshot preserves.
type issueQuery struct {
	Repository struct {
		Issue struct {
			ID        githubv4.ID
			Number    githubv4.Int
			Title     githubv4.String
			Body      githubv4.String
			CreatedAt githubv4.DateTime
			Author    struct {
				Login githubv4.String
			}
			Comments struct {
				Nodes []commentNode
			} `graphql:"comments(last: $pageSize)"`
		} `graphql:"issue(number: $issueNumber)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type commentNode struct {
	ID        githubv4.ID
	Body      githubv4.String
	CreatedAt githubv4.DateTime
	Author    struct {
		Login githubv4.String
	}
}

// GraphQLQuerier is the slice of *githubv4.Client this package uses.
type GraphQLQuerier interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

// Client fetches issue context through the GitHub GraphQL API.
type Client struct {
	gql GraphQLQuerier
}

func NewClient(gql GraphQLQuerier) *Client {
	return &Client{gql: gql}
}

// FetchIssueContext loads an issue and its trailing comments as an immutable
// snapshot. commentsPageSize is clamped to [1, 20]. The result is always one
// of the four FetchStatus variants; incomplete payloads (blank authors,
// non-positive numbers) are rejected before a snapshot is constructed.
func (c *Client) FetchIssueContext(ctx context.Context, owner, name string, issueNumber, commentsPageSize int) FetchResult {
	var q issueQuery
	vars := map[string]interface{}{
		"owner":       githubv4.String(owner),
		"name":        githubv4.String(name),
		"issueNumber": githubv4.Int(issueNumber),
		"pageSize":    githubv4.Int(clampPageSize(commentsPageSize)),
	}

	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return classifyQueryError(err)
	}

	snapshot, err := mapIssue(q)
	if err != nil {
		return graphQLFailure(fmt.Sprintf("incomplete issue payload for %s/%s#%d: %v", owner, name, issueNumber, err))
	}
	return success(snapshot)
}

func clampPageSize(n int) int {
	if n < minCommentPageSize {
		return minCommentPageSize
	}
	if n > maxCommentPageSize {
		return maxCommentPageSize
	}
	return n
}

// classifyQueryError sorts transport and API errors into the closed outcome
// set. githubv4 surfaces HTTP failures as "non-200 OK status code" errors and
// GraphQL-level errors as their raw messages.
func classifyQueryError(err error) FetchResult {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return unexpectedError(fmt.Sprintf("fetch aborted: %v", err))
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "401") || strings.Contains(lower, "403") ||
		strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden") ||
		strings.Contains(lower, "permission") || strings.Contains(lower, "resource not accessible"):
		return permissionDenied(msg)
	case strings.Contains(lower, "non-200 ok status code"):
		return unexpectedError(msg)
	default:
		return graphQLFailure(msg)
	}
}

// mapIssue converts the wire shape into a snapshot, enforcing the snapshot
// invariants. Deleted accounts surface as blank author logins and are treated
// as incomplete payloads.
func mapIssue(q issueQuery) (conversation.IssueSnapshot, error) {
	issue := q.Repository.Issue

	number := int(issue.Number)
	if number <= 0 {
		return conversation.IssueSnapshot{}, fmt.Errorf("issue has non-positive number %d", number)
	}
	author := string(issue.Author.Login)
	if strings.TrimSpace(author) == "" {
		return conversation.IssueSnapshot{}, fmt.Errorf("issue #%d has a blank author login", number)
	}

	comments := make([]conversation.CommentSnapshot, 0, len(issue.Comments.Nodes))
	for i, node := range issue.Comments.Nodes {
		commentAuthor := string(node.Author.Login)
		if strings.TrimSpace(commentAuthor) == "" {
			return conversation.IssueSnapshot{}, fmt.Errorf("comment %d on issue #%d has a blank author login", i, number)
		}
		comments = append(comments, conversation.CommentSnapshot{
			ID:          idString(node.ID),
			AuthorLogin: commentAuthor,
			Body:        string(node.Body),
			CreatedAt:   node.CreatedAt.Time.UTC(),
		})
	}

	return conversation.IssueSnapshot{
		ID:          idString(issue.ID),
		Number:      number,
		Title:       string(issue.Title),
		Body:        string(issue.Body),
		AuthorLogin: author,
		CreatedAt:   issue.CreatedAt.Time.UTC(),
		Comments:    comments,
	}, nil
}

func idString(id githubv4.ID) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}
