package runner

import (
	"context"
	"fmt"
	"iter"

	"github.com/arlenmoss/strophe/kernel/convo"
	"github.com/arlenmoss/strophe/kernel/model"
)

// ChatRunner adapts a plain model.LLM into the Runner contract for
// chat-only sessions: one completion per turn, streamed as a single
// text event pair, no tool calls. Tool-capable runtimes implement
// Runner directly.
type ChatRunner struct {
	LLM    model.LLM
	System string
}

func (r *ChatRunner) Run(ctx context.Context, req Request) Run {
	messages := req.Messages
	if req.Input != "" {
		messages = append(append([]convo.Message(nil), messages...), convo.UserPrompt(req.Input))
	}
	return &chatRun{runner: r, ctx: ctx, messages: messages}
}

// Resume is never reached for chat-only runs; it restarts the prior
// conversation unchanged so a misuse stays harmless.
func (r *ChatRunner) Resume(ctx context.Context, prior Run, approvals []ApprovalResult) Run {
	if chat, ok := prior.(*chatRun); ok {
		return &chatRun{runner: r, ctx: ctx, messages: chat.messages}
	}
	return &chatRun{runner: r, ctx: ctx}
}

type chatRun struct {
	runner   *ChatRunner
	ctx      context.Context
	messages []convo.Message
	result   *RunResult
}

func (c *chatRun) Events() iter.Seq2[convo.Event, error] {
	return func(yield func(convo.Event, error) bool) {
		if c.runner == nil || c.runner.LLM == nil {
			yield(convo.Event{}, fmt.Errorf("runner: chat runner has no model"))
			return
		}
		resp, err := c.runner.LLM.Complete(c.ctx, &model.Request{
			System:   c.runner.System,
			Messages: toChatMessages(c.messages),
		})
		if err != nil {
			yield(convo.Event{}, err)
			return
		}
		c.result = &RunResult{
			Messages: append(append([]convo.Message(nil), c.messages...), convo.ModelResponse(convo.TextPart{Text: resp.Text})),
			Usage: convo.Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
			Output: resp.Text,
		}
		if !yield(convo.Event{Kind: convo.EventTextStart}, nil) {
			return
		}
		if !yield(convo.Event{Kind: convo.EventTextDelta, Text: resp.Text}, nil) {
			return
		}
		yield(convo.Event{Kind: convo.EventFinalResult}, nil)
	}
}

func (c *chatRun) Result() *RunResult {
	return c.result
}

func toChatMessages(messages []convo.Message) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		switch msg.Kind {
		case convo.MessageUserPrompt:
			out = append(out, model.ChatMessage{Role: model.RoleUser, Text: msg.Text})
		case convo.MessageModelResponse:
			if text := msg.TextContent(); text != "" {
				out = append(out, model.ChatMessage{Role: model.RoleAssistant, Text: text})
			}
		case convo.MessageToolReturns:
			for _, ret := range msg.Returns {
				out = append(out, model.ChatMessage{Role: model.RoleUser, Text: fmt.Sprintf("[tool %s result] %s", ret.ToolName, ret.ContentText())})
			}
		}
	}
	return out
}
