// Package runner defines the agent-runner boundary: the execution
// runtime that drives the model-tool loop and streams the turn's events.
// The orchestrator consumes this interface; runtimes plug in behind it.
package runner

import (
	"context"
	"iter"

	"github.com/arlenmoss/strophe/kernel/convo"
)

// Request starts one streamed turn.
type Request struct {
	// Input is the new user prompt. Empty when retrying a failed attempt
	// or resuming a reflection turn; the prompt is then already part of
	// Messages.
	Input string
	// Messages is the governed conversation history.
	Messages []convo.Message
	// Verbose requests thinking events when the runtime supports them.
	Verbose bool
}

// PendingToolCall is one tool call awaiting human approval.
type PendingToolCall struct {
	CallID string
	Name   string
	Args   map[string]any
}

// Deferred bundles the tool calls a run paused on.
type Deferred struct {
	Calls []PendingToolCall
}

// ApprovalResult resolves one pending tool call.
type ApprovalResult struct {
	CallID   string
	Approved bool
	// Reason carries the denial reason shown to the model.
	Reason string
}

// RunResult is the outcome of one fully consumed event stream. Either
// Output or Deferred is set; Deferred means the run paused for approval
// and must be resumed.
type RunResult struct {
	Messages []convo.Message
	Usage    convo.Usage
	Output   string
	Deferred *Deferred
}

// Run is one in-flight stream invocation. Result is valid only after
// Events has been consumed to completion.
type Run interface {
	Events() iter.Seq2[convo.Event, error]
	Result() *RunResult
}

// Runner starts and resumes streamed turns.
type Runner interface {
	Run(ctx context.Context, req Request) Run
	// Resume continues a deferred run with the approval set, streaming
	// the remainder of the turn.
	Resume(ctx context.Context, prior Run, approvals []ApprovalResult) Run
}
