package history

import (
	"strings"
	"testing"

	"github.com/arlenmoss/strophe/kernel/convo"
)

func TestTruncateDisabledReturnsIdentity(t *testing.T) {
	input := []convo.Message{
		convo.ToolReturns(convo.ToolReturn{CallID: "c1", ToolName: "shell", Content: strings.Repeat("x", 1000)}),
		convo.UserPrompt("next"),
	}
	got := TruncateToolReturns(input, 0, 2)
	if len(got) != len(input) || &got[0] != &input[0] {
		t.Fatal("threshold <= 0 must return the identical slice")
	}
}

func TestTruncateProtectsTail(t *testing.T) {
	long := strings.Repeat("y", 500)
	input := []convo.Message{
		convo.UserPrompt("do it"),
		convo.ToolReturns(convo.ToolReturn{CallID: "c9", ToolName: "shell", Content: long}),
	}
	// Both messages sit inside the protected tail.
	got := TruncateToolReturns(input, 100, 2)
	if &got[0] != &input[0] {
		t.Fatal("history within protected tail must be returned as-is")
	}
}

func TestTruncateLongToolReturn(t *testing.T) {
	long := strings.Repeat("z", 300)
	input := []convo.Message{
		convo.ToolReturns(convo.ToolReturn{CallID: "c1", ToolName: "shell", Content: long}),
		convo.UserPrompt("later"),
		convo.ModelResponse(convo.TextPart{Text: "ok"}),
	}
	got := TruncateToolReturns(input, 100, 2)
	if len(got) != 3 {
		t.Fatalf("expected same length, got %d", len(got))
	}
	ret := got[0].Returns[0]
	content, ok := ret.Content.(string)
	if !ok {
		t.Fatalf("expected string content, got %T", ret.Content)
	}
	if !strings.HasPrefix(content, strings.Repeat("z", 100)) {
		t.Fatal("expected original prefix to survive")
	}
	if !strings.Contains(content, "original length 300") {
		t.Fatalf("expected length marker, got %q", content)
	}
	if ret.CallID != "c1" || ret.ToolName != "shell" {
		t.Fatalf("call identity not preserved: %+v", ret)
	}
	// The input message is untouched.
	if input[0].Returns[0].Content != any(long) {
		t.Fatal("input mutated")
	}
}

func TestTruncateSerializesStructuredContent(t *testing.T) {
	input := []convo.Message{
		convo.ToolReturns(convo.ToolReturn{
			CallID:   "c1",
			ToolName: "read_file",
			Content:  map[string]any{"text": strings.Repeat("a", 200)},
		}),
		convo.UserPrompt("x"),
		convo.UserPrompt("y"),
	}
	got := TruncateToolReturns(input, 50, 2)
	content, ok := got[0].Returns[0].Content.(string)
	if !ok {
		t.Fatalf("expected serialized string, got %T", got[0].Returns[0].Content)
	}
	if !strings.Contains(content, "original length") {
		t.Fatalf("expected marker on serialized map, got %q", content)
	}
}
