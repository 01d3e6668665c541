// Package config provides configuration management for the issueagent action.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultBotLogin        = "github-actions[bot]"
	DefaultSignatureMarker = "<!-- issueagent-signature -->"
	DefaultModel           = "claude-3-7-sonnet-latest"
	DefaultCommentPageSize = 20
	DefaultMaxOutputTokens = 4096
)

// Config holds the configuration for the agent.
type Config struct {
	GitHubToken     string
	AnthropicAPIKey string

	// Provided by the Actions runtime
	Repository string // owner/repo
	EventName  string
	EventPath  string

	BotLogin        string
	SignatureMarker string
	Model           string
	CommentPageSize int
	MaxOutputTokens int64

	OTLPEndpoint string
}

// Load loads configuration from environment variables.
func Load() Config {
	cfg := Config{
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		Repository:      os.Getenv("GITHUB_REPOSITORY"),
		EventName:       os.Getenv("GITHUB_EVENT_NAME"),
		EventPath:       os.Getenv("GITHUB_EVENT_PATH"),
		BotLogin:        DefaultBotLogin,
		SignatureMarker: DefaultSignatureMarker,
		Model:           DefaultModel,
		CommentPageSize: DefaultCommentPageSize,
		MaxOutputTokens: DefaultMaxOutputTokens,
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if v := os.Getenv("ISSUEAGENT_BOT_LOGIN"); v != "" {
		cfg.BotLogin = v
	}
	if v := os.Getenv("ISSUEAGENT_SIGNATURE_MARKER"); v != "" {
		cfg.SignatureMarker = v
	}
	if v := os.Getenv("ISSUEAGENT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ISSUEAGENT_COMMENT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CommentPageSize = n
		}
	}
	if v := os.Getenv("ISSUEAGENT_MAX_OUTPUT_TOKENS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxOutputTokens = n
		}
	}

	return cfg
}

// Validate checks if the required configuration is present.
func (c Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_TOKEN")
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("missing required environment variable: ANTHROPIC_API_KEY")
	}
	if c.Repository == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_REPOSITORY")
	}
	if c.EventName == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_EVENT_NAME")
	}
	if c.EventPath == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_EVENT_PATH")
	}
	return nil
}

// SplitRepository returns owner and name from the owner/repo pair.
func (c Config) SplitRepository() (owner string, name string, err error) {
	parts := strings.Split(c.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format '%s', expected owner/repo", c.Repository)
	}
	return parts[0], parts[1], nil
}
