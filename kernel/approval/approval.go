// Package approval resolves pending tool calls before a deferred run is
// resumed: session auto-confirm, safe-command auto-approval under
// isolation, or an interactive prompt.
package approval

import (
	"context"
	"fmt"

	"github.com/arlenmoss/strophe/kernel/policy"
	"github.com/arlenmoss/strophe/kernel/runner"
	"github.com/arlenmoss/strophe/kernel/sandbox"
	"github.com/arlenmoss/strophe/kernel/tool"
)

// PromptDecision is the user's answer to one approval prompt.
type PromptDecision string

const (
	PromptApprove PromptDecision = "approve"
	PromptDeny    PromptDecision = "deny"
	// PromptApproveSession approves and enables session auto-confirm for
	// all later calls in the process lifetime.
	PromptApproveSession PromptDecision = "approve_session"
)

// DeniedByUserReason is the structured denial reason sent to the model.
const DeniedByUserReason = "denied by user"

// Prompter asks the user for one approval decision. The prompt blocks
// the turn; implementations must keep the interrupt signal deliverable
// and surface it as an error.
type Prompter interface {
	PromptApproval(description string) (PromptDecision, error)
}

// Session is approval state scoped to one CLI session. It is written
// only by the gate and read by later calls; there is no parallel
// execution, so no locking.
type Session struct {
	AutoConfirm bool
}

// Gate resolves pending tool calls.
type Gate struct {
	Session  *Session
	Safe     *policy.SafeCommandClassifier
	Sandbox  sandbox.Sandbox
	Prompter Prompter
}

// Resolve decides every pending call in order. An error means the
// prompt was interrupted; the caller treats it as turn cancellation.
func (g *Gate) Resolve(ctx context.Context, calls []runner.PendingToolCall) ([]runner.ApprovalResult, error) {
	out := make([]runner.ApprovalResult, 0, len(calls))
	for _, call := range calls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := g.resolveOne(call)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, nil
}

func (g *Gate) resolveOne(call runner.PendingToolCall) (runner.ApprovalResult, error) {
	if g.Session != nil && g.Session.AutoConfirm {
		return runner.ApprovalResult{CallID: call.CallID, Approved: true}, nil
	}
	if tool.IsShell(call.Name) && g.isolated() && g.Safe != nil {
		if command := tool.CommandFromArgs(call.Args); command != "" && g.Safe.IsSafe(command) {
			return runner.ApprovalResult{CallID: call.CallID, Approved: true}, nil
		}
	}
	if g.Prompter == nil {
		return runner.ApprovalResult{CallID: call.CallID, Approved: false, Reason: DeniedByUserReason}, nil
	}
	decision, err := g.Prompter.PromptApproval(describeCall(call))
	if err != nil {
		return runner.ApprovalResult{}, err
	}
	switch decision {
	case PromptApprove:
		return runner.ApprovalResult{CallID: call.CallID, Approved: true}, nil
	case PromptApproveSession:
		if g.Session != nil {
			g.Session.AutoConfirm = true
		}
		return runner.ApprovalResult{CallID: call.CallID, Approved: true}, nil
	default:
		return runner.ApprovalResult{CallID: call.CallID, Approved: false, Reason: DeniedByUserReason}, nil
	}
}

func (g *Gate) isolated() bool {
	return g.Sandbox != nil && g.Sandbox.IsolationLevel() != sandbox.IsolationNone
}

func describeCall(call runner.PendingToolCall) string {
	if tool.IsShell(call.Name) {
		if command := tool.CommandFromArgs(call.Args); command != "" {
			return fmt.Sprintf("run shell command: %s", command)
		}
	}
	return fmt.Sprintf("call tool %s with %v", call.Name, call.Args)
}
