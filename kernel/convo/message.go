// Package convo defines the in-process conversation model shared by the
// turn engine: messages, response parts, tool returns and stream events.
package convo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MessageKind identifies the message variant.
type MessageKind string

const (
	// MessageUserPrompt is input submitted by the user (or synthesized by
	// the engine, for reflection turns and compaction summaries).
	MessageUserPrompt MessageKind = "user_prompt"
	// MessageModelResponse is one model turn, carrying ordered parts.
	MessageModelResponse MessageKind = "model_response"
	// MessageToolReturns carries one or more tool results keyed by call id.
	MessageToolReturns MessageKind = "tool_returns"
)

// Part is one element of a model response. The concrete types are
// TextPart, ThinkingPart and ToolCallPart; the dispatcher and patcher
// switch over them exhaustively.
type Part interface {
	isPart()
}

// TextPart is rendered answer text.
type TextPart struct {
	Text string
}

// ThinkingPart is model reasoning, rendered only in verbose mode.
type ThinkingPart struct {
	Text string
}

// ToolCallPart is a model-emitted tool invocation request.
type ToolCallPart struct {
	CallID string
	Name   string
	Args   map[string]any
}

func (TextPart) isPart()     {}
func (ThinkingPart) isPart() {}
func (ToolCallPart) isPart() {}

// ToolReturn is one tool execution result. Content is either a plain
// string or a structured map; maps may expose a "display" field for
// human-facing rendering.
type ToolReturn struct {
	CallID   string
	ToolName string
	Content  any
}

// ContentText returns the return content as a string, serializing
// structured content to JSON.
func (r ToolReturn) ContentText() string {
	switch typed := r.Content.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		raw, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(raw)
	}
}

// Display returns the human-facing form of the content: the "display"
// field of a structured payload when present, otherwise ContentText.
func (r ToolReturn) Display() string {
	if m, ok := r.Content.(map[string]any); ok {
		if display, ok := m["display"].(string); ok && strings.TrimSpace(display) != "" {
			return display
		}
	}
	return r.ContentText()
}

// Message is one element of the conversation sequence. The sequence is
// append-only; only history compaction and dangling-call patching may
// replace a contiguous sub-range.
type Message struct {
	Kind    MessageKind
	Text    string       // MessageUserPrompt
	Parts   []Part       // MessageModelResponse
	Returns []ToolReturn // MessageToolReturns
}

// UserPrompt builds a user prompt message.
func UserPrompt(text string) Message {
	return Message{Kind: MessageUserPrompt, Text: text}
}

// ModelResponse builds a model response message from ordered parts.
func ModelResponse(parts ...Part) Message {
	return Message{Kind: MessageModelResponse, Parts: parts}
}

// ToolReturns builds a tool-returns message.
func ToolReturns(returns ...ToolReturn) Message {
	return Message{Kind: MessageToolReturns, Returns: returns}
}

// ToolCalls returns the tool-call parts of a model response in order.
func (m Message) ToolCalls() []ToolCallPart {
	if m.Kind != MessageModelResponse {
		return nil
	}
	out := make([]ToolCallPart, 0, len(m.Parts))
	for _, part := range m.Parts {
		if call, ok := part.(ToolCallPart); ok {
			out = append(out, call)
		}
	}
	return out
}

// HasText reports whether a model response contains a non-empty rendered
// text part.
func (m Message) HasText() bool {
	if m.Kind != MessageModelResponse {
		return false
	}
	for _, part := range m.Parts {
		if text, ok := part.(TextPart); ok && strings.TrimSpace(text.Text) != "" {
			return true
		}
	}
	return false
}

// TextContent joins the text parts of a model response, or returns the
// prompt text for a user prompt.
func (m Message) TextContent() string {
	switch m.Kind {
	case MessageUserPrompt:
		return m.Text
	case MessageModelResponse:
		var b strings.Builder
		for _, part := range m.Parts {
			if text, ok := part.(TextPart); ok {
				b.WriteString(text.Text)
			}
		}
		return b.String()
	default:
		return ""
	}
}
