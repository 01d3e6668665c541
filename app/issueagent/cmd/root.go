package cmd

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

type loggerKey struct{}

var rootCmd = &cobra.Command{
	Use:   "issueagent",
	Short: "AI assistant that replies to GitHub issues",
	Long: `Issueagent is a GitHub Action that reacts to issue events. It rebuilds the
conversation from the issue and its comments, decides whether the agent should
reply, and posts the generated response back as an issue comment.`,
	PersistentPreRun: setup,
	SilenceUsage:     true,
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func setup(cmd *cobra.Command, _ []string) {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
	cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using environment variables")
	}
}

// LoggerFromContext returns the logger installed by the root command.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func logLevel() slog.Level {
	if os.Getenv("ISSUEAGENT_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
