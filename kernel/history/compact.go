package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/arlenmoss/strophe/kernel/convo"
)

// compact replaces the middle of an oversized history with one synthetic
// summary message. The head (through the first model response with
// rendered text) and the tail window are preserved by identity; only the
// range between them is replaced.
func (g *Governor) compact(ctx context.Context, messages []convo.Message) ([]convo.Message, error) {
	maxMessages := g.cfg.MaxMessages
	if maxMessages <= 0 || len(messages) <= maxMessages {
		return messages, nil
	}
	head := headBoundary(messages)
	tailCount := maxMessages / 2
	if tailCount < 4 {
		tailCount = 4
	}
	tailStart := len(messages) - tailCount
	if tailStart <= head+1 {
		return messages, nil
	}
	middle := messages[head+1 : tailStart]
	if len(middle) == 0 {
		return messages, nil
	}
	if err := ctx.Err(); err != nil {
		return messages, err
	}

	synthetic := g.summaryMessage(ctx, middle)
	out := make([]convo.Message, 0, head+1+1+tailCount)
	out = append(out, messages[:head+1]...)
	out = append(out, synthetic)
	out = append(out, messages[tailStart:]...)
	return out, nil
}

func (g *Governor) summaryMessage(ctx context.Context, middle []convo.Message) convo.Message {
	if g.cfg.Summarizer != nil {
		summary, err := g.cfg.Summarizer.Summarize(ctx, middle)
		if err == nil && strings.TrimSpace(summary) != "" {
			return convo.UserPrompt(fmt.Sprintf("[Summary of %d earlier messages]\n%s", len(middle), summary))
		}
	}
	return convo.UserPrompt(fmt.Sprintf("[Earlier conversation trimmed, %d messages removed]", len(middle)))
}

// headBoundary anchors the session's opening exchange: the index of the
// first model response containing rendered text, or 0 when none exists.
func headBoundary(messages []convo.Message) int {
	for i, msg := range messages {
		if msg.HasText() {
			return i
		}
	}
	return 0
}
