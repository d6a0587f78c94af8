package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

var (
	// errReadInterrupted reports Ctrl+C at an input prompt.
	errReadInterrupted = errors.New("cli: read interrupted")
	// errReadClosed reports end of input (Ctrl+D or exhausted stdin).
	errReadClosed = errors.New("cli: input closed")
)

// terminalInput reads user input for the REPL and approval prompts.
// Interactive sessions get a readline editor with persistent history and
// slash-command completion; piped stdin falls back to a plain buffered
// reader that echoes the prompt itself.
type terminalInput struct {
	rl    *readline.Instance
	plain *bufio.Reader
	out   io.Writer
}

func openTerminalInput(historyFile string, slashCommands []string) *terminalInput {
	if interactive() {
		if rl := openReadline(historyFile, slashCommands); rl != nil {
			return &terminalInput{rl: rl, out: rl.Stdout()}
		}
	}
	return &terminalInput{plain: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func openReadline(historyFile string, slashCommands []string) *readline.Instance {
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0o755); err != nil {
			historyFile = ""
		}
	}
	completions := make([]readline.PrefixCompleterInterface, 0, len(slashCommands))
	for _, name := range slashCommands {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		completions = append(completions, readline.PcItem("/"+name))
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyFile,
		AutoComplete:      readline.NewPrefixCompleter(completions...),
		InterruptPrompt:   "^C",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil
	}
	return rl
}

func (t *terminalInput) ReadLine(prompt string) (string, error) {
	if t.rl == nil {
		return t.readPlain(prompt)
	}
	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	switch {
	case err == nil:
		return strings.TrimSpace(line), nil
	case errors.Is(err, readline.ErrInterrupt):
		return "", errReadInterrupted
	case errors.Is(err, io.EOF):
		return "", errReadClosed
	default:
		return "", err
	}
}

func (t *terminalInput) readPlain(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.plain.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", errReadClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *terminalInput) Output() io.Writer { return t.out }

func (t *terminalInput) Close() error {
	if t.rl != nil {
		return t.rl.Close()
	}
	return nil
}
