package history

import (
	"context"
	"strings"
	"testing"

	"github.com/arlenmoss/strophe/kernel/convo"
	"github.com/arlenmoss/strophe/kernel/model"
)

type stubLLM struct {
	reply string
	err   error
	req   *model.Request
}

func (s *stubLLM) Name() string { return "stub" }

func (s *stubLLM) Complete(_ context.Context, req *model.Request) (*model.Response, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &model.Response{Text: s.reply}, nil
}

func TestModelSummarizer(t *testing.T) {
	llm := &stubLLM{reply: "  summary text  "}
	s := NewModelSummarizer(llm, 0)
	messages := []convo.Message{
		convo.UserPrompt("fix the bug in main.go"),
		convo.ModelResponse(
			convo.TextPart{Text: "patched it"},
			convo.ToolCallPart{CallID: "c1", Name: "shell", Args: map[string]any{"cmd": "go test"}},
		),
		convo.ToolReturns(convo.ToolReturn{CallID: "c1", ToolName: "shell", Content: "ok"}),
	}
	summary, err := s.Summarize(context.Background(), messages)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary != "summary text" {
		t.Fatalf("expected trimmed reply, got %q", summary)
	}
	if !strings.Contains(llm.req.System, "untrusted data") {
		t.Fatal("system prompt must mark content as untrusted")
	}
	transcript := llm.req.Messages[0].Text
	for _, want := range []string{"fix the bug", "patched it", "called tool shell", "tool shell returned"} {
		if !strings.Contains(transcript, want) {
			t.Fatalf("transcript missing %q:\n%s", want, transcript)
		}
	}
}

func TestClipToTokenBudget(t *testing.T) {
	text := strings.Repeat("abcd ", 100)
	clipped := clipToTokenBudget(text, 10)
	if len(clipped) >= len(text) {
		t.Fatal("expected clipping past the budget")
	}
	if !strings.HasSuffix(clipped, "[transcript clipped]") {
		t.Fatalf("expected clip marker, got %q", clipped[len(clipped)-30:])
	}
	if got := clipToTokenBudget("short", 100); got != "short" {
		t.Fatalf("under-budget text must pass through, got %q", got)
	}
}
