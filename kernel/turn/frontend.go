// Package turn is the engine's top level: the orchestrator drives one
// exchange from submitted input through streamed output, approval
// gating, provider-error recovery and safe interruption.
package turn

import "github.com/arlenmoss/strophe/kernel/approval"

// Frontend receives the turn's rendered output and owns the terminal.
// Delta callbacks receive the accumulated buffer so far; commit
// callbacks receive the final buffer. Every call must be safe on empty
// input (committing nothing is a no-op). Cleanup restores terminal
// state and runs on every exit path.
type Frontend interface {
	TextDelta(accumulated string)
	TextCommit(final string)
	ThinkingDelta(accumulated string)
	ThinkingCommit(final string)
	ToolCall(name, argsDisplay string)
	ToolResult(title, content string)
	Status(message string)
	FinalOutput(text string)
	PromptApproval(description string) (approval.PromptDecision, error)
	Cleanup()
}
