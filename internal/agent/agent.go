// Package agent wires the event pipeline: fetch issue context, rebuild the
// conversation, decide whether to reply, generate, and post.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/issueagent/issueagent/internal/conversation"
	"github.com/issueagent/issueagent/internal/decision"
	"github.com/issueagent/issueagent/internal/event"
	"github.com/issueagent/issueagent/internal/githubctx"
	"github.com/issueagent/issueagent/internal/respond"
	"github.com/issueagent/issueagent/internal/telemetry"
)

// ContextFetcher is the boundary that loads issue state.
type ContextFetcher interface {
	FetchIssueContext(ctx context.Context, owner, name string, issueNumber, commentsPageSize int) githubctx.FetchResult
}

// Params collects the collaborators an Agent is assembled from.
type Params struct {
	Fetcher   ContextFetcher
	Builder   conversation.HistoryBuilder
	Engine    decision.Engine
	Generator respond.Generator
	Poster    respond.CommentPoster
	Telemetry *telemetry.Provider
	Logger    *slog.Logger

	BotLogin         string
	CommentsPageSize int
}

// Agent handles one triggering event end to end.
type Agent struct {
	fetcher   ContextFetcher
	builder   conversation.HistoryBuilder
	engine    decision.Engine
	generator respond.Generator
	poster    respond.CommentPoster
	telemetry *telemetry.Provider
	logger    *slog.Logger

	botLogin         string
	commentsPageSize int
}

func New(p Params) *Agent {
	return &Agent{
		fetcher:          p.Fetcher,
		builder:          p.Builder,
		engine:           p.Engine,
		generator:        p.Generator,
		poster:           p.Poster,
		telemetry:        p.Telemetry,
		logger:           p.Logger,
		botLogin:         p.BotLogin,
		commentsPageSize: p.CommentsPageSize,
	}
}

// HandleEvent runs a single sequential pipeline invocation for the triggering
// event. Fetch failures short-circuit before the conversation core is
// invoked; generation failures degrade to a canned reply and never propagate
// to the issue thread.
func (a *Agent) HandleEvent(ctx context.Context, trig event.Trigger) error {
	ctx, span := a.telemetry.StartSpan(ctx, "agent.handle_event",
		attribute.String("event.name", trig.Event),
		attribute.String("repo", trig.Owner+"/"+trig.Repo),
		attribute.Int("issue.number", trig.IssueNumber),
	)
	defer span.End()

	logger := a.logger.With("owner", trig.Owner, "repo", trig.Repo, "issue", trig.IssueNumber)
	logger.Info("handling event", "event", trig.Event, "action", trig.Action, "actor", trig.ActorLogin)

	result := a.fetchContext(ctx, trig)
	switch result.Status {
	case githubctx.StatusSuccess:
	case githubctx.StatusPermissionDenied:
		return fmt.Errorf("permission denied fetching issue context: %s", result.Message)
	case githubctx.StatusGraphQLFailure:
		return fmt.Errorf("graphql failure fetching issue context: %s", result.Message)
	default:
		return fmt.Errorf("unexpected error fetching issue context: %s", result.Message)
	}

	history := a.builder.BuildHistory(result.Snapshot)
	logger.Info("conversation rebuilt", "messages", len(history))

	res := a.engine.Decide(history, decision.TriggerContext{
		IssueOpened: trig.Event == event.EventIssues && trig.Action == event.ActionOpened,
		ActorLogin:  trig.ActorLogin,
		Mentioned:   trig.Mentioned(a.botLogin),
	})
	logger.Info("response decision made", "decision", res.Decision, "rationale", res.Rationale)
	if res.Decision != decision.MustRespond {
		return nil
	}

	text := a.generate(ctx, history, res, logger)

	if err := a.post(ctx, trig, text); err != nil {
		return err
	}
	logger.Info("reply posted")
	return nil
}

func (a *Agent) fetchContext(ctx context.Context, trig event.Trigger) githubctx.FetchResult {
	ctx, span := a.telemetry.StartSpan(ctx, "agent.fetch_context")
	defer span.End()
	result := a.fetcher.FetchIssueContext(ctx, trig.Owner, trig.Repo, trig.IssueNumber, a.commentsPageSize)
	span.SetAttributes(attribute.String("fetch.status", string(result.Status)))
	return result
}

func (a *Agent) generate(ctx context.Context, history []conversation.Message, res decision.Result, logger *slog.Logger) string {
	ctx, span := a.telemetry.StartSpan(ctx, "agent.generate")
	defer span.End()
	return respond.GenerateWithFallback(ctx, a.generator, history, res, logger)
}

func (a *Agent) post(ctx context.Context, trig event.Trigger, text string) error {
	ctx, span := a.telemetry.StartSpan(ctx, "agent.post_reply")
	defer span.End()
	if err := a.poster.PostReply(ctx, trig.Owner, trig.Repo, trig.IssueNumber, text); err != nil {
		return fmt.Errorf("failed to post reply: %w", err)
	}
	return nil
}
