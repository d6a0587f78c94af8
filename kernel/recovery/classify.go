// Package recovery contains the turn engine's two pure recovery
// routines: provider-error classification and dangling-tool-call repair.
package recovery

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/arlenmoss/strophe/kernel/model"
)

// Action is the recovery branch chosen for one provider error.
type Action string

const (
	// ActionReflect retries by describing the rejected request back to the
	// model instead of submitting new user input.
	ActionReflect Action = "reflect"
	// ActionBackoffRetry retries the request unchanged after a delay.
	ActionBackoffRetry Action = "backoff_retry"
	// ActionAbort ends the turn with partial history and no output.
	ActionAbort Action = "abort"
)

// Decision is the classifier output for one provider error.
type Decision struct {
	Action  Action
	Message string
	Delay   time.Duration
}

const (
	reflectDelay      = 500 * time.Millisecond
	serverErrorDelay  = 2 * time.Second
	networkErrorDelay = 2 * time.Second
	defaultRetryAfter = 5 * time.Second
	maxRetryAfter     = 60 * time.Second
)

var retryAfterPattern = regexp.MustCompile(`(?i)"?retry[-_]after"?\s*[:=]\s*"?([0-9]+(?:\.[0-9]+)?)`)

// Classify maps one provider error to a recovery decision. It is total:
// every error shape maps to exactly one branch and Delay is always in
// [0, maxRetryAfter].
func Classify(err error) Decision {
	if err == nil {
		return Decision{Action: ActionAbort, Message: "provider returned no error"}
	}
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		return Decision{
			Action:  ActionBackoffRetry,
			Message: fmt.Sprintf("network error: %v", err),
			Delay:   networkErrorDelay,
		}
	}
	status := httpErr.StatusCode
	switch {
	case status == 400:
		return Decision{
			Action:  ActionReflect,
			Message: clipRunes(httpErr.Body, 600),
			Delay:   reflectDelay,
		}
	case status == 401 || status == 403:
		return Decision{
			Action:  ActionAbort,
			Message: fmt.Sprintf("authentication error (HTTP %d)", status),
		}
	case status == 404:
		return Decision{
			Action:  ActionAbort,
			Message: fmt.Sprintf("not found (HTTP %d)", status),
		}
	case status == 429:
		return Decision{
			Action:  ActionBackoffRetry,
			Message: "rate limited by provider",
			Delay:   parseRetryAfter(httpErr.Body),
		}
	case status >= 500:
		return Decision{
			Action:  ActionBackoffRetry,
			Message: fmt.Sprintf("provider server error (HTTP %d)", status),
			Delay:   serverErrorDelay,
		}
	default:
		return Decision{
			Action:  ActionAbort,
			Message: fmt.Sprintf("provider rejected request (HTTP %d)", status),
		}
	}
}

// parseRetryAfter extracts a numeric retry-after hint from a response
// body. Malformed or missing bodies fall back to a safe default; the
// result is capped so a hostile hint cannot stall the turn.
func parseRetryAfter(body string) time.Duration {
	match := retryAfterPattern.FindStringSubmatch(body)
	if len(match) < 2 {
		return defaultRetryAfter
	}
	seconds, err := strconv.ParseFloat(match[1], 64)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	delay := time.Duration(seconds * float64(time.Second))
	if delay > maxRetryAfter {
		return maxRetryAfter
	}
	return delay
}

func clipRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + " ..."
}
