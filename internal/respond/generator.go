// Package respond generates the agent's replies and posts them back to the
// issue thread.
package respond

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/issueagent/issueagent/internal/conversation"
	"github.com/issueagent/issueagent/internal/decision"
)

// Generator produces reply text from a rebuilt transcript. Implementations
// must not mutate the history they receive.
type Generator interface {
	Generate(ctx context.Context, history []conversation.Message, res decision.Result) (string, error)
}

const systemPrompt = `You are issueagent, an assistant that participates in GitHub issue threads.
You receive the issue and its comment history as a conversation. Reply to the
latest message helpfully and concisely, in GitHub-flavored markdown. Do not
invent repository details you were not shown. If you need information only a
maintainer can provide, say so and ask for it.`

// ClaudeGenerator generates replies through the Anthropic Messages API.
type ClaudeGenerator struct {
	client          anthropic.Client
	model           anthropic.Model
	maxOutputTokens int64
}

func NewClaudeGenerator(client anthropic.Client, model anthropic.Model, maxOutputTokens int64) ClaudeGenerator {
	return ClaudeGenerator{
		client:          client,
		model:           model,
		maxOutputTokens: maxOutputTokens,
	}
}

func (g ClaudeGenerator) Generate(ctx context.Context, history []conversation.Message, _ decision.Result) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("cannot generate a reply from an empty history")
	}

	params := anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: toMessageParams(history),
	}

	stream := g.client.Messages.NewStreaming(ctx, params)
	response := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := response.Accumulate(event); err != nil {
			return "", fmt.Errorf("failed to accumulate response content stream: %w", err)
		}
	}
	if stream.Err() != nil {
		return "", fmt.Errorf("failed to stream response: %w", stream.Err())
	}
	if response.StopReason == "" {
		return "", fmt.Errorf("response ended without a stop reason")
	}

	var sb strings.Builder
	for _, contentBlock := range response.Content {
		if textBlock, ok := contentBlock.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(textBlock.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("response contained no text content")
	}
	return text, nil
}

// toMessageParams converts the transcript to API message params. User messages
// carry author attribution so the model can tell participants apart; the
// agent's own turns map to assistant messages verbatim. Consecutive same-role
// messages are coalesced into one param with multiple text blocks, since the
// API expects alternating roles.
func toMessageParams(history []conversation.Message) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(history))
	for _, msg := range history {
		role := anthropic.MessageParamRoleUser
		text := msg.Text
		if msg.Role == conversation.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		} else {
			text = fmt.Sprintf("%s wrote:\n\n%s", msg.AuthorName, msg.Text)
		}

		block := anthropic.NewTextBlock(text)
		if n := len(params); n > 0 && params[n-1].Role == role {
			params[n-1].Content = append(params[n-1].Content, block)
			continue
		}
		params = append(params, anthropic.MessageParam{
			Role:    role,
			Content: []anthropic.ContentBlockParamUnion{block},
		})
	}
	return params
}
