package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/arlenmoss/strophe/kernel/approval"
	"github.com/arlenmoss/strophe/kernel/convo"
	"github.com/arlenmoss/strophe/kernel/history"
	"github.com/arlenmoss/strophe/kernel/model/providers"
	"github.com/arlenmoss/strophe/kernel/policy"
	"github.com/arlenmoss/strophe/kernel/runner"
	"github.com/arlenmoss/strophe/kernel/sandbox"
	"github.com/arlenmoss/strophe/kernel/turn"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "strophe:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("strophe", flag.ExitOnError)
	provider := fs.String("provider", "anthropic", "Model provider (anthropic|openai)")
	modelName := fs.String("model", "claude-sonnet-4-5", "Model name")
	baseURL := fs.String("base-url", "", "Provider base URL override")
	verbose := fs.Bool("verbose", false, "Render model thinking")
	autoConfirm := fs.Bool("yes", false, "Auto-confirm all tool calls for this session")
	isolation := fs.String("isolation", string(sandbox.IsolationNone), "Sandbox isolation level (none|read_only|workspace_write)")
	maxHistory := fs.Int("max-history", 40, "Compact history past this many messages")
	maxToolOutput := fs.Int("max-tool-output", 16384, "Truncate older tool output past this many bytes")
	maxRetries := fs.Int("max-retries", 3, "Provider retry budget per turn")
	stateDir := fs.String("state-dir", defaultStateDir(), "Directory for input history and transcript index")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	token := strings.TrimSpace(os.Getenv("STROPHE_API_KEY"))
	if token == "" {
		token = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	}
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	llm, err := providers.New(providers.Config{
		Provider: *provider,
		Model:    *modelName,
		BaseURL:  *baseURL,
		APIKey:   token,
		Timeout:  120 * time.Second,
	})
	if err != nil {
		return err
	}

	in := openTerminalInput(filepath.Join(*stateDir, "input_history"), []string{"exit", "new", "history"})
	defer in.Close()

	transcript, err := newTranscriptIndex(filepath.Join(*stateDir, "transcript.db"))
	if err != nil {
		return err
	}
	defer transcript.Close()

	fe := newConsole(in, *verbose)
	session := &approval.Session{AutoConfirm: *autoConfirm}
	cfg := turn.Config{
		Runner:   &runner.ChatRunner{LLM: llm},
		Frontend: fe,
		Governor: history.New(history.Config{
			MaxToolReturnBytes: *maxToolOutput,
			MaxMessages:        *maxHistory,
			Summarizer:         history.NewModelSummarizer(llm, 0),
		}),
		Gate: &approval.Gate{
			Session:  session,
			Safe:     policy.NewSafeCommandClassifier(policy.DefaultSafeCommands()),
			Sandbox:  sandbox.Static{Level: sandbox.IsolationLevel(*isolation)},
			Prompter: fe,
		},
		Verbose:    *verbose,
		MaxRetries: *maxRetries,
	}

	var messages []convo.Message
	for {
		line, err := in.ReadLine("> ")
		if err != nil {
			if errors.Is(err, errReadInterrupted) {
				continue
			}
			if errors.Is(err, errReadClosed) {
				return nil
			}
			return err
		}
		switch {
		case line == "":
			continue
		case line == "/exit":
			return nil
		case line == "/new":
			messages = nil
			fe.Status("started a new conversation")
			continue
		case line == "/history":
			printRecentTurns(context.Background(), fe, transcript)
			continue
		}

		turnCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		res := turn.Run(turnCtx, cfg, line, messages)
		stop()

		messages = res.Messages
		if res.Interrupted {
			fe.Status("turn interrupted")
		} else if !res.StreamedText {
			fe.FinalOutput(res.Output)
		}
		if err := transcript.Record(context.Background(), transcriptRecord{
			Input:            line,
			Output:           res.Output,
			Interrupted:      res.Interrupted,
			PromptTokens:     res.Usage.PromptTokens,
			CompletionTokens: res.Usage.CompletionTokens,
		}); err != nil {
			fe.Status(err.Error())
		}
	}
}

func printRecentTurns(ctx context.Context, fe *console, transcript *transcriptIndex) {
	records, err := transcript.Recent(ctx, 10)
	if err != nil {
		fe.Status(err.Error())
		return
	}
	if len(records) == 0 {
		fe.Status("no recorded turns")
		return
	}
	for _, rec := range records {
		marker := ""
		if rec.Interrupted {
			marker = " [interrupted]"
		}
		fe.Status(fmt.Sprintf("%s%s: %s", rec.CreatedAt.Format("2006-01-02 15:04"), marker, firstLine(rec.Input)))
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strophe"
	}
	return filepath.Join(home, ".strophe")
}
