package convo

import "testing"

func TestToolReturnDisplay(t *testing.T) {
	ret := ToolReturn{
		CallID:   "c1",
		ToolName: "shell",
		Content:  map[string]any{"display": "2 files changed", "exit_code": 0},
	}
	if got := ret.Display(); got != "2 files changed" {
		t.Fatalf("expected display field, got %q", got)
	}

	ret.Content = "plain output"
	if got := ret.Display(); got != "plain output" {
		t.Fatalf("expected plain content, got %q", got)
	}
}

func TestToolReturnContentTextSerializesMaps(t *testing.T) {
	ret := ToolReturn{Content: map[string]any{"stdout": "ok"}}
	if got := ret.ContentText(); got != `{"stdout":"ok"}` {
		t.Fatalf("expected serialized map, got %q", got)
	}
}

func TestMessageToolCalls(t *testing.T) {
	msg := ModelResponse(
		ThinkingPart{Text: "hm"},
		TextPart{Text: "running it"},
		ToolCallPart{CallID: "c1", Name: "shell", Args: map[string]any{"cmd": "ls"}},
		ToolCallPart{CallID: "c2", Name: "read_file"},
	)
	calls := msg.ToolCalls()
	if len(calls) != 2 || calls[0].CallID != "c1" || calls[1].CallID != "c2" {
		t.Fatalf("unexpected tool calls: %+v", calls)
	}
	if !msg.HasText() {
		t.Fatal("expected HasText for response with text part")
	}
	if UserPrompt("hi").HasText() {
		t.Fatal("user prompts never report HasText")
	}
}
