package turn

import (
	"context"
	"encoding/json"
	"iter"
	"strings"
	"time"

	"github.com/arlenmoss/strophe/kernel/convo"
	"github.com/arlenmoss/strophe/kernel/tool"
)

// renderInterval bounds how often buffered deltas reach the Frontend.
// The final flush always fires, so throttling never drops state.
const renderInterval = 50 * time.Millisecond

// dispatcher consumes a turn's event streams. Render buffers live for
// one Dispatch call; the shell-command memory spans the whole turn so a
// resumed stream can title results whose calls arrived earlier.
type dispatcher struct {
	fe           Frontend
	verbose      bool
	now          func() time.Time
	commands     map[string]string
	streamedText bool
}

func newDispatcher(fe Frontend, verbose bool) *dispatcher {
	return &dispatcher{
		fe:       fe,
		verbose:  verbose,
		now:      time.Now,
		commands: map[string]string{},
	}
}

type streamState struct {
	text               strings.Builder
	thinking           strings.Builder
	lastTextRender     time.Time
	lastThinkingRender time.Time
}

// Dispatch renders one event stream invocation in arrival order.
// Buffers are flushed and the Frontend cleanup hook runs on every exit,
// including errors and cancellation.
func (d *dispatcher) Dispatch(ctx context.Context, events iter.Seq2[convo.Event, error]) (err error) {
	state := &streamState{}
	defer func() {
		d.flushThinking(state)
		d.flushText(state)
		d.fe.Cleanup()
	}()

	for ev, evErr := range events {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if evErr != nil {
			return evErr
		}
		switch ev.Kind {
		case convo.EventTextStart:
			d.flushThinking(state)
		case convo.EventTextDelta:
			d.flushThinking(state)
			if ev.Text == "" {
				continue
			}
			state.text.WriteString(ev.Text)
			if state.lastTextRender.IsZero() || d.now().Sub(state.lastTextRender) >= renderInterval {
				d.fe.TextDelta(state.text.String())
				d.streamedText = true
				state.lastTextRender = d.now()
			}
		case convo.EventThinkingStart:
			// Buffering begins with the first delta.
		case convo.EventThinkingDelta:
			if ev.Text == "" {
				continue
			}
			state.thinking.WriteString(ev.Text)
			if !d.verbose {
				continue
			}
			if state.lastThinkingRender.IsZero() || d.now().Sub(state.lastThinkingRender) >= renderInterval {
				d.fe.ThinkingDelta(state.thinking.String())
				state.lastThinkingRender = d.now()
			}
		case convo.EventToolCallInvoked:
			d.flushThinking(state)
			d.flushText(state)
			if ev.Call == nil {
				continue
			}
			display := argsDisplay(ev.Call.Args)
			if tool.IsShell(ev.Call.Name) {
				if command := tool.CommandFromArgs(ev.Call.Args); command != "" {
					d.commands[ev.Call.CallID] = command
					display = command
				}
			}
			d.fe.ToolCall(ev.Call.Name, display)
		case convo.EventToolCallResult:
			d.flushThinking(state)
			d.flushText(state)
			if ev.Return == nil {
				continue
			}
			title := ev.Return.ToolName
			if command, ok := d.commands[ev.Return.CallID]; ok {
				title = command
			}
			d.fe.ToolResult(title, ev.Return.Display())
		case convo.EventFinalResult:
			// Render-neutral: more text may still follow it.
		}
	}
	return nil
}

func (d *dispatcher) flushText(state *streamState) {
	if state.text.Len() == 0 {
		return
	}
	d.fe.TextCommit(state.text.String())
	d.streamedText = true
	state.text.Reset()
	state.lastTextRender = time.Time{}
}

func (d *dispatcher) flushThinking(state *streamState) {
	if state.thinking.Len() > 0 && d.verbose {
		d.fe.ThinkingCommit(state.thinking.String())
	}
	state.thinking.Reset()
	state.lastThinkingRender = time.Time{}
}

func argsDisplay(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return string(raw)
}
