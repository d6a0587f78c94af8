package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arlenmoss/strophe/kernel/approval"
	"github.com/arlenmoss/strophe/kernel/convo"
	"github.com/arlenmoss/strophe/kernel/history"
	"github.com/arlenmoss/strophe/kernel/recovery"
	"github.com/arlenmoss/strophe/kernel/runner"
)

// ErrInterrupted marks an explicit user interrupt (for example Ctrl+C
// during an approval prompt). It is handled inside Run together with
// cooperative context cancellation and never escapes to the caller.
var ErrInterrupted = errors.New("turn: interrupted by user")

// retryPatchNote answers tool calls left open when a resumed stream
// fails and the turn restarts from the top. Restarting re-sends the
// history, which must not carry unanswered calls.
const retryPatchNote = "Tool call was not executed."

// Config wires one turn's collaborators and limits.
type Config struct {
	Runner   runner.Runner
	Frontend Frontend
	Governor *history.Governor
	Gate     *approval.Gate
	Verbose  bool

	// MaxRetries is the shared budget for reflect and backoff retries
	// within one turn.
	MaxRetries int
	// BackoffGrowth multiplies the backoff scale after each retry.
	BackoffGrowth float64
	// BackoffCeiling caps any single backoff sleep.
	BackoffCeiling time.Duration
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffGrowth <= 1 {
		cfg.BackoffGrowth = 2.0
	}
	if cfg.BackoffCeiling <= 0 {
		cfg.BackoffCeiling = 30 * time.Second
	}
	// An empty gate has no session, no safe list and no prompter, so it
	// denies every deferred call instead of panicking.
	if cfg.Gate == nil {
		cfg.Gate = &approval.Gate{}
	}
	return cfg
}

// Result is one finished turn.
type Result struct {
	Messages     []convo.Message
	Output       string
	Usage        convo.Usage
	Interrupted  bool
	StreamedText bool
}

type turnState struct {
	input        string
	messages     []convo.Message
	usage        convo.Usage
	retriesLeft  int
	backoffScale float64
	lastDelay    time.Duration
	abortMessage string
}

type streamOutcome int

const (
	outcomeRetry streamOutcome = iota
	outcomeAbort
	outcomeInterrupted
)

// Run drives one turn: govern history, dispatch the stream, resolve
// deferred approvals, recover from provider errors, and normalize the
// history on interruption. It always returns a valid Result; errors and
// cancellation are absorbed here.
func Run(ctx context.Context, cfg Config, input string, messages []convo.Message) Result {
	cfg = normalizeConfig(cfg)
	t := &turnState{
		input:        input,
		messages:     messages,
		retriesLeft:  cfg.MaxRetries,
		backoffScale: 1,
	}
	d := newDispatcher(cfg.Frontend, cfg.Verbose)
	defer cfg.Frontend.Cleanup()

	for {
		if cfg.Governor != nil {
			governed, err := cfg.Governor.Govern(ctx, t.messages)
			if err != nil {
				return t.interrupted(d)
			}
			t.messages = governed
		}

		run := cfg.Runner.Run(ctx, runner.Request{
			Input:    t.input,
			Messages: t.messages,
			Verbose:  cfg.Verbose,
		})
		err := d.Dispatch(ctx, run.Events())
		res := run.Result()

		retrying := false
		if err != nil {
			switch t.handleStreamError(ctx, cfg, err) {
			case outcomeInterrupted:
				return t.interrupted(d)
			case outcomeAbort:
				return t.aborted(cfg, d)
			case outcomeRetry:
				continue
			}
		}
		t.adopt(res)

		for res != nil && res.Deferred != nil && len(res.Deferred.Calls) > 0 {
			approvals, approvalErr := cfg.Gate.Resolve(ctx, res.Deferred.Calls)
			if approvalErr != nil {
				return t.interrupted(d)
			}
			run = cfg.Runner.Resume(ctx, run, approvals)
			err = d.Dispatch(ctx, run.Events())
			res = run.Result()
			if err != nil {
				switch t.handleStreamError(ctx, cfg, err) {
				case outcomeInterrupted:
					return t.interrupted(d)
				case outcomeAbort:
					return t.aborted(cfg, d)
				case outcomeRetry:
					retrying = true
				}
				break
			}
			t.adopt(res)
		}
		if retrying {
			continue
		}

		t.input = ""
		output := ""
		if res != nil {
			output = res.Output
		}
		return Result{
			Messages:     t.messages,
			Output:       output,
			Usage:        t.usage,
			StreamedText: d.streamedText,
		}
	}
}

func (t *turnState) adopt(res *runner.RunResult) {
	if res == nil {
		return
	}
	if len(res.Messages) > 0 {
		t.messages = res.Messages
		// The runner folded the pending input into its history; a later
		// retry resending it would duplicate the prompt.
		t.input = ""
	}
	t.usage.Add(res.Usage)
}

func (t *turnState) handleStreamError(ctx context.Context, cfg Config, err error) streamOutcome {
	if isCancellation(ctx, err) {
		return outcomeInterrupted
	}
	decision := recovery.Classify(err)
	switch decision.Action {
	case recovery.ActionReflect:
		if t.retriesLeft <= 0 {
			t.abortMessage = fmt.Sprintf("retry budget exhausted: %s", decision.Message)
			return outcomeAbort
		}
		t.retriesLeft--
		cfg.Frontend.Status("provider rejected a tool call, retrying with feedback")
		if sleepCtx(ctx, decision.Delay) != nil {
			return outcomeInterrupted
		}
		t.messages = recovery.PatchDanglingCalls(t.messages, retryPatchNote)
		if t.input != "" {
			t.messages = append(t.messages, convo.UserPrompt(t.input))
			t.input = ""
		}
		t.messages = append(t.messages, convo.UserPrompt(fmt.Sprintf(
			"The provider rejected the previous request: %s\nFix the malformed tool call and continue.",
			decision.Message,
		)))
		return outcomeRetry
	case recovery.ActionBackoffRetry:
		if t.retriesLeft <= 0 {
			t.abortMessage = fmt.Sprintf("retry budget exhausted: %s", decision.Message)
			return outcomeAbort
		}
		t.retriesLeft--
		delay := t.nextBackoff(cfg, decision.Delay)
		cfg.Frontend.Status(fmt.Sprintf("%s, retrying in %s", decision.Message, delay.Round(100*time.Millisecond)))
		if sleepCtx(ctx, delay) != nil {
			return outcomeInterrupted
		}
		t.messages = recovery.PatchDanglingCalls(t.messages, retryPatchNote)
		return outcomeRetry
	default:
		t.abortMessage = decision.Message
		return outcomeAbort
	}
}

// nextBackoff scales the classifier delay by the per-turn multiplier.
// Delays never decrease across retries and never exceed the ceiling.
func (t *turnState) nextBackoff(cfg Config, base time.Duration) time.Duration {
	delay := time.Duration(float64(base) * t.backoffScale)
	if delay < t.lastDelay {
		delay = t.lastDelay
	}
	if delay > cfg.BackoffCeiling {
		delay = cfg.BackoffCeiling
	}
	t.backoffScale *= cfg.BackoffGrowth
	t.lastDelay = delay
	return delay
}

func (t *turnState) interrupted(d *dispatcher) Result {
	return Result{
		Messages:     recovery.PatchDanglingCalls(t.messages, ""),
		Usage:        t.usage,
		Interrupted:  true,
		StreamedText: d.streamedText,
	}
}

func (t *turnState) aborted(cfg Config, d *dispatcher) Result {
	if t.abortMessage != "" {
		cfg.Frontend.Status(t.abortMessage)
	}
	return Result{
		Messages:     t.messages,
		Usage:        t.usage,
		StreamedText: d.streamedText,
	}
}

func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrInterrupted)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
