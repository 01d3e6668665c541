package respond

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v72/github"
)

// CommentPoster publishes replies to issue threads.
type CommentPoster interface {
	PostReply(ctx context.Context, owner, repo string, issueNumber int, body string) error
}

// githubCommentPoster implements CommentPoster using the GitHub REST API.
type githubCommentPoster struct {
	client          *github.Client
	signatureMarker string
}

func NewCommentPoster(client *github.Client, signatureMarker string) CommentPoster {
	return &githubCommentPoster{
		client:          client,
		signatureMarker: signatureMarker,
	}
}

func (p *githubCommentPoster) PostReply(ctx context.Context, owner, repo string, issueNumber int, body string) error {
	comment := &github.IssueComment{
		Body: github.Ptr(Sign(body, p.signatureMarker)),
	}
	_, _, err := p.client.Issues.CreateComment(ctx, owner, repo, issueNumber, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment on issue #%d: %w", issueNumber, err)
	}
	return nil
}

// Sign appends the signature marker on its own trailing line so future runs
// classify the comment as the agent's. Text already carrying the marker is
// returned unchanged.
func Sign(body, marker string) string {
	if strings.Contains(body, marker) {
		return body
	}
	return body + "\n\n" + marker
}
