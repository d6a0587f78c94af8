package convo

import "github.com/google/uuid"

// EventKind identifies one stream event variant.
type EventKind string

const (
	EventTextStart       EventKind = "text_start"
	EventTextDelta       EventKind = "text_delta"
	EventThinkingStart   EventKind = "thinking_start"
	EventThinkingDelta   EventKind = "thinking_delta"
	EventToolCallInvoked EventKind = "tool_call_invoked"
	EventToolCallResult  EventKind = "tool_call_result"
	// EventFinalResult marks the run result boundary. It is side-effect
	// free for rendering; more text may still follow it.
	EventFinalResult EventKind = "final_result"
)

// Event is one element of a turn's ordered event sequence. Exactly the
// fields relevant to the Kind are populated.
type Event struct {
	Kind   EventKind
	Text   string        // text/thinking deltas
	Call   *ToolCallPart // tool_call_invoked
	Return *ToolReturn   // tool_call_result
}

// NewID returns a fresh unique id for calls and transcript records.
func NewID() string {
	return uuid.NewString()
}
