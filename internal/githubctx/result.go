// Package githubctx fetches issue context through the GitHub GraphQL API and
// collapses all fetch-time failure into a closed set of outcomes.
package githubctx

import "github.com/issueagent/issueagent/internal/conversation"

// FetchStatus classifies the outcome of an issue context fetch.
type FetchStatus string

const (
	StatusSuccess          FetchStatus = "success"
	StatusPermissionDenied FetchStatus = "permission_denied"
	StatusGraphQLFailure   FetchStatus = "graphql_failure"
	StatusUnexpectedError  FetchStatus = "unexpected_error"
)

// FetchResult is the single outcome type of FetchIssueContext. Snapshot is
// populated only when Status is StatusSuccess; callers must check OK before
// handing the snapshot to the history builder.
type FetchResult struct {
	Status   FetchStatus
	Snapshot conversation.IssueSnapshot
	Message  string
}

func (r FetchResult) OK() bool {
	return r.Status == StatusSuccess
}

func success(snapshot conversation.IssueSnapshot) FetchResult {
	return FetchResult{Status: StatusSuccess, Snapshot: snapshot}
}

func permissionDenied(message string) FetchResult {
	return FetchResult{Status: StatusPermissionDenied, Message: message}
}

func graphQLFailure(message string) FetchResult {
	return FetchResult{Status: StatusGraphQLFailure, Message: message}
}

func unexpectedError(message string) FetchResult {
	return FetchResult{Status: StatusUnexpectedError, Message: message}
}
