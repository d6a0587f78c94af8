package recovery

import "github.com/arlenmoss/strophe/kernel/convo"

// DefaultInterruptionNote is the tool-return content synthesized for
// calls left dangling by an interrupted turn.
const DefaultInterruptionNote = "Interrupted by user."

// PatchDanglingCalls repairs a message sequence after interruption so
// every tool call has a matching return before the sequence is sent to
// the model again. Unanswered calls anywhere in the history each get one
// synthesized return, appended together as a single message in
// first-seen order. When nothing dangles the input is returned as-is.
// Existing messages are never mutated.
func PatchDanglingCalls(messages []convo.Message, note string) []convo.Message {
	if note == "" {
		note = DefaultInterruptionNote
	}
	answered := map[string]struct{}{}
	for _, msg := range messages {
		for _, ret := range msg.Returns {
			answered[ret.CallID] = struct{}{}
		}
	}

	var dangling []convo.ToolCallPart
	seen := map[string]struct{}{}
	for _, msg := range messages {
		for _, call := range msg.ToolCalls() {
			if call.CallID == "" {
				continue
			}
			if _, ok := answered[call.CallID]; ok {
				continue
			}
			if _, ok := seen[call.CallID]; ok {
				continue
			}
			seen[call.CallID] = struct{}{}
			dangling = append(dangling, call)
		}
	}
	if len(dangling) == 0 {
		return messages
	}

	returns := make([]convo.ToolReturn, 0, len(dangling))
	for _, call := range dangling {
		returns = append(returns, convo.ToolReturn{
			CallID:   call.CallID,
			ToolName: call.Name,
			Content:  note,
		})
	}
	out := make([]convo.Message, 0, len(messages)+1)
	out = append(out, messages...)
	out = append(out, convo.ToolReturns(returns...))
	return out
}
