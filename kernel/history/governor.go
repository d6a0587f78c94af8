// Package history conditions the message sequence before each model
// request: tool-output truncation followed by sliding-window compaction.
package history

import (
	"context"

	"github.com/arlenmoss/strophe/kernel/convo"
)

// Config configures the Governor.
type Config struct {
	// MaxToolReturnBytes truncates older tool-return content longer than
	// this many bytes. Zero or negative disables truncation.
	MaxToolReturnBytes int
	// ProtectedTail is the number of trailing messages truncation never
	// touches (the current turn).
	ProtectedTail int
	// MaxMessages triggers compaction when the history grows past it.
	// Zero or negative disables compaction.
	MaxMessages int
	// Summarizer produces the compaction summary. Nil forces the static
	// placeholder on every compaction.
	Summarizer Summarizer
}

// Summarizer condenses a message range into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, messages []convo.Message) (string, error)
}

// Governor runs the two pre-request history transforms in order.
type Governor struct {
	cfg Config
}

func New(cfg Config) *Governor {
	if cfg.ProtectedTail <= 0 {
		cfg.ProtectedTail = 2
	}
	return &Governor{cfg: cfg}
}

// Govern applies truncation then compaction. Both transforms preserve
// input identity when they have nothing to do. Summarizer failure
// degrades to a placeholder rather than failing the turn; the only error
// returned is context cancellation.
func (g *Governor) Govern(ctx context.Context, messages []convo.Message) ([]convo.Message, error) {
	if err := ctx.Err(); err != nil {
		return messages, err
	}
	out := TruncateToolReturns(messages, g.cfg.MaxToolReturnBytes, g.cfg.ProtectedTail)
	return g.compact(ctx, out)
}
