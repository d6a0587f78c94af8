// Package sandbox is the isolation-level protocol consumed by the
// approval gate. Backend internals (containers, seatbelt profiles) live
// behind this boundary.
package sandbox

// IsolationLevel describes how strongly tool execution is contained.
type IsolationLevel string

const (
	// IsolationNone means commands run directly on the host.
	IsolationNone IsolationLevel = "none"
	// IsolationReadOnly allows reads of the workspace only.
	IsolationReadOnly IsolationLevel = "read_only"
	// IsolationWorkspaceWrite confines writes to the workspace.
	IsolationWorkspaceWrite IsolationLevel = "workspace_write"
)

// Sandbox exposes the isolation level of the execution environment.
type Sandbox interface {
	IsolationLevel() IsolationLevel
}

// Static is a fixed-level Sandbox.
type Static struct {
	Level IsolationLevel
}

func (s Static) IsolationLevel() IsolationLevel {
	if s.Level == "" {
		return IsolationNone
	}
	return s.Level
}
