package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/go-github/v72/github"
	"github.com/shurcooL/githubv4"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/issueagent/issueagent/internal/agent"
	"github.com/issueagent/issueagent/internal/config"
	"github.com/issueagent/issueagent/internal/conversation"
	"github.com/issueagent/issueagent/internal/decision"
	"github.com/issueagent/issueagent/internal/event"
	"github.com/issueagent/issueagent/internal/githubctx"
	"github.com/issueagent/issueagent/internal/respond"
	"github.com/issueagent/issueagent/internal/telemetry"
	"github.com/issueagent/issueagent/internal/transport"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Handle the triggering issue event",
	Long: `Runs a single event-handling pass. This mode is designed to be invoked by a
GitHub Actions workflow on issues and issue_comment events.`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runAgent(cmd *cobra.Command, _ []string) error {
	ctx := setupSignalContext(cmd.Context())
	logger := LoggerFromContext(ctx)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	trig, err := event.Load(cfg.EventName, cfg.EventPath)
	if err != nil {
		return fmt.Errorf("failed to load triggering event: %w", err)
	}

	// The payload's repository is authoritative; GITHUB_REPOSITORY is the
	// fallback for payloads that omit it
	if trig.Owner == "" || trig.Repo == "" {
		owner, name, err := cfg.SplitRepository()
		if err != nil {
			return err
		}
		trig.Owner, trig.Repo = owner, name
	}

	telemetryProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.OTLPEndpoint != "",
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := telemetryProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to shut down telemetry provider", "error", err)
		}
	}()

	a := agent.New(agent.Params{
		Fetcher:          githubctx.NewClient(createGraphQLClient(ctx, cfg.GitHubToken)),
		Builder:          conversation.NewHistoryBuilder(cfg.BotLogin, cfg.SignatureMarker),
		Engine:           decision.NewEngine(cfg.BotLogin),
		Generator:        respond.NewClaudeGenerator(createAnthropicClient(cfg.AnthropicAPIKey), anthropic.Model(cfg.Model), cfg.MaxOutputTokens),
		Poster:           respond.NewCommentPoster(createGithubClient(ctx, cfg.GitHubToken), cfg.SignatureMarker),
		Telemetry:        telemetryProvider,
		Logger:           logger,
		BotLogin:         cfg.BotLogin,
		CommentsPageSize: cfg.CommentPageSize,
	})

	return a.HandleEvent(ctx, trig)
}

func setupSignalContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		slog.Warn("interrupt signal detected, shutting down gracefully; interrupt again to force shutdown")
		cancel()
		<-interrupt
		os.Exit(1)
	}()

	return ctx
}

func createGithubClient(ctx context.Context, token string) *github.Client {
	return github.NewClient(createAuthenticatedHTTPClient(ctx, token))
}

func createGraphQLClient(ctx context.Context, token string) *githubv4.Client {
	return githubv4.NewClient(createAuthenticatedHTTPClient(ctx, token))
}

func createAuthenticatedHTTPClient(ctx context.Context, token string) *http.Client {
	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	httpClient.Transport = transport.WithRateLimiting(httpClient.Transport)
	return httpClient
}

func createAnthropicClient(apiKey string) anthropic.Client {
	rateLimitedHTTPClient := &http.Client{
		Transport: transport.WithRateLimiting(nil),
	}
	return anthropic.NewClient(
		option.WithHTTPClient(rateLimitedHTTPClient),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(5),
	)
}
