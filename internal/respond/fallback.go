package respond

import (
	"context"
	"log/slog"

	"github.com/issueagent/issueagent/internal/conversation"
	"github.com/issueagent/issueagent/internal/decision"
)

// Canned replies used when generation fails. The first-contact variant is
// chosen when the transcript holds nothing beyond the opening issue message.
const (
	fallbackFirstContact = "Thanks for opening this issue! I wasn't able to put together a full reply just now, but a maintainer will take a look soon."
	fallbackFollowUp     = "Thanks for the follow-up. I wasn't able to put together a full reply just now, but I'll revisit this conversation shortly."
)

// GenerateWithFallback invokes the generator and degrades to canned text on
// any failure, including cancellation. Raw generation failures are logged but
// never surface on the issue thread.
func GenerateWithFallback(ctx context.Context, gen Generator, history []conversation.Message, res decision.Result, logger *slog.Logger) string {
	text, err := gen.Generate(ctx, history, res)
	if err != nil {
		logger.Warn("response generation failed, using canned reply", "error", err)
		return FallbackText(history)
	}
	return text
}

// FallbackText returns the deterministic canned reply for the given
// transcript.
func FallbackText(history []conversation.Message) string {
	if len(history) <= 1 {
		return fallbackFirstContact
	}
	return fallbackFollowUp
}
