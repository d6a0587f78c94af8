package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/arlenmoss/strophe/kernel/approval"
	"github.com/arlenmoss/strophe/kernel/turn"
)

const toolDisplayWidth = 96

// promptReader is the input surface the console needs: the terminal
// input in production, a scripted stub in tests.
type promptReader interface {
	ReadLine(prompt string) (string, error)
	Output() io.Writer
}

// console renders turn output to the input's writer. It implements
// turn.Frontend.
type console struct {
	out     io.Writer
	in      promptReader
	verbose bool

	// printed tracks how much of the accumulated delta buffer has been
	// written, so each delta appends only the new suffix.
	printed      int
	thinkPrinted int
	partialOpen  bool
	thinkOpen    bool

	thinkColor  *color.Color
	toolColor   *color.Color
	resultColor *color.Color
	statusColor *color.Color
}

func newConsole(in promptReader, verbose bool) *console {
	return &console{
		out:         in.Output(),
		in:          in,
		verbose:     verbose,
		thinkColor:  color.New(color.Faint),
		toolColor:   color.New(color.FgYellow),
		resultColor: color.New(color.FgGreen),
		statusColor: color.New(color.FgCyan),
	}
}

func (c *console) TextDelta(accumulated string) {
	if len(accumulated) <= c.printed {
		return
	}
	c.closeThinking()
	if !c.partialOpen {
		fmt.Fprint(c.out, "* ")
		c.partialOpen = true
	}
	fmt.Fprint(c.out, accumulated[c.printed:])
	c.printed = len(accumulated)
}

func (c *console) TextCommit(final string) {
	if final == "" && !c.partialOpen {
		return
	}
	c.TextDelta(final)
	if c.partialOpen {
		fmt.Fprintln(c.out)
	}
	c.partialOpen = false
	c.printed = 0
}

func (c *console) ThinkingDelta(accumulated string) {
	if !c.verbose || len(accumulated) <= c.thinkPrinted {
		return
	}
	if !c.thinkOpen {
		c.thinkColor.Fprint(c.out, "~ ")
		c.thinkOpen = true
	}
	c.thinkColor.Fprint(c.out, accumulated[c.thinkPrinted:])
	c.thinkPrinted = len(accumulated)
}

func (c *console) ThinkingCommit(final string) {
	if !c.verbose {
		return
	}
	c.ThinkingDelta(final)
	c.closeThinking()
}

func (c *console) ToolCall(name, argsDisplay string) {
	c.closeThinking()
	line := name
	if argsDisplay != "" {
		line = fmt.Sprintf("%s: %s", name, argsDisplay)
	}
	c.toolColor.Fprintf(c.out, "→ %s\n", runewidth.Truncate(line, toolDisplayWidth, "..."))
}

func (c *console) ToolResult(title, content string) {
	c.closeThinking()
	c.resultColor.Fprintf(c.out, "✓ %s\n", runewidth.Truncate(title, toolDisplayWidth, "..."))
	if summary := firstLine(content); summary != "" {
		fmt.Fprintf(c.out, "  %s\n", runewidth.Truncate(summary, toolDisplayWidth, "..."))
	}
}

func (c *console) Status(message string) {
	c.closeThinking()
	c.statusColor.Fprintf(c.out, "! %s\n", message)
}

// FinalOutput renders a non-streamed answer as markdown. Callers invoke
// it only when no text was streamed during the turn.
func (c *console) FinalOutput(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if rendered, renderErr := renderer.Render(text); renderErr == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, text)
}

func (c *console) PromptApproval(description string) (approval.PromptDecision, error) {
	c.Cleanup()
	c.statusColor.Fprintf(c.out, "approval required: %s\n", description)
	for {
		answer, err := c.in.ReadLine("approve? [y]es / [n]o / [a]lways: ")
		if err != nil {
			// Interrupting the prompt cancels the turn, not the process.
			return approval.PromptDeny, turn.ErrInterrupted
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return approval.PromptApprove, nil
		case "n", "no":
			return approval.PromptDeny, nil
		case "a", "always":
			return approval.PromptApproveSession, nil
		}
	}
}

// Cleanup closes any open partial line so the next prompt starts clean.
// Safe to call repeatedly.
func (c *console) Cleanup() {
	c.closeThinking()
	if c.partialOpen {
		fmt.Fprintln(c.out)
		c.partialOpen = false
	}
	c.printed = 0
}

func (c *console) closeThinking() {
	if c.thinkOpen {
		fmt.Fprintln(c.out)
		c.thinkOpen = false
	}
	c.thinkPrinted = 0
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
