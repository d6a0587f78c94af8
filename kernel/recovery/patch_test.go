package recovery

import (
	"testing"

	"github.com/arlenmoss/strophe/kernel/convo"
)

func TestPatchDanglingCalls(t *testing.T) {
	input := []convo.Message{
		convo.UserPrompt("list and read"),
		convo.ModelResponse(
			convo.TextPart{Text: "on it"},
			convo.ToolCallPart{CallID: "c1", Name: "shell", Args: map[string]any{"cmd": "ls"}},
			convo.ToolCallPart{CallID: "c2", Name: "read_file"},
		),
	}
	patched := PatchDanglingCalls(input, "")
	if len(patched) != 3 {
		t.Fatalf("expected exactly one appended message, got %d total", len(patched))
	}
	appended := patched[2]
	if appended.Kind != convo.MessageToolReturns || len(appended.Returns) != 2 {
		t.Fatalf("expected two tool returns, got %+v", appended)
	}
	if appended.Returns[0].CallID != "c1" || appended.Returns[1].CallID != "c2" {
		t.Fatalf("expected first-seen order c1,c2, got %+v", appended.Returns)
	}
	for _, ret := range appended.Returns {
		if ret.Content != DefaultInterruptionNote {
			t.Fatalf("expected %q, got %v", DefaultInterruptionNote, ret.Content)
		}
	}
	if appended.Returns[0].ToolName != "shell" {
		t.Fatalf("tool name not preserved: %+v", appended.Returns[0])
	}
}

func TestPatchDanglingCallsAcrossResponses(t *testing.T) {
	input := []convo.Message{
		convo.ModelResponse(convo.ToolCallPart{CallID: "c1", Name: "shell"}),
		convo.ToolReturns(convo.ToolReturn{CallID: "c1", ToolName: "shell", Content: "done"}),
		convo.ModelResponse(convo.ToolCallPart{CallID: "c2", Name: "read_file"}),
		convo.ModelResponse(convo.ToolCallPart{CallID: "c3", Name: "shell"}),
	}
	patched := PatchDanglingCalls(input, "stopped")
	if len(patched) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(patched))
	}
	returns := patched[4].Returns
	if len(returns) != 2 || returns[0].CallID != "c2" || returns[1].CallID != "c3" {
		t.Fatalf("expected returns for c2,c3 only, got %+v", returns)
	}
	if returns[0].Content != "stopped" {
		t.Fatalf("expected override note, got %v", returns[0].Content)
	}
}

func TestPatchDanglingCallsIdentityWhenClean(t *testing.T) {
	input := []convo.Message{
		convo.UserPrompt("hi"),
		convo.ModelResponse(convo.TextPart{Text: "hello"}),
	}
	if got := PatchDanglingCalls(input, ""); &got[0] != &input[0] || len(got) != len(input) {
		t.Fatal("expected identical slice when nothing dangles")
	}
}

func TestPatchDanglingCallsIdempotent(t *testing.T) {
	input := []convo.Message{
		convo.ModelResponse(convo.ToolCallPart{CallID: "c1", Name: "shell"}),
	}
	once := PatchDanglingCalls(input, "")
	twice := PatchDanglingCalls(once, "")
	if len(twice) != len(once) || &twice[0] != &once[0] {
		t.Fatal("re-patching a patched history must be a no-op")
	}
}
