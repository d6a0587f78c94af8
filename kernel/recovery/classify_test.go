package recovery

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arlenmoss/strophe/kernel/model"
)

func TestClassifyStatusPartition(t *testing.T) {
	cases := []struct {
		status int
		want   Action
	}{
		{400, ActionReflect},
		{401, ActionAbort},
		{403, ActionAbort},
		{404, ActionAbort},
		{418, ActionAbort},
		{422, ActionAbort},
		{429, ActionBackoffRetry},
		{500, ActionBackoffRetry},
		{503, ActionBackoffRetry},
	}
	for _, tc := range cases {
		decision := Classify(&model.HTTPError{StatusCode: tc.status})
		if decision.Action != tc.want {
			t.Fatalf("status %d: expected %s, got %s", tc.status, tc.want, decision.Action)
		}
		if decision.Delay < 0 || decision.Delay > maxRetryAfter {
			t.Fatalf("status %d: delay %s out of bounds", tc.status, decision.Delay)
		}
	}
}

func TestClassifyRateLimitRetryAfter(t *testing.T) {
	decision := Classify(&model.HTTPError{
		StatusCode: 429,
		Body:       `{"retry-after":"5"}`,
	})
	if decision.Action != ActionBackoffRetry {
		t.Fatalf("expected backoff retry, got %s", decision.Action)
	}
	if !strings.Contains(strings.ToLower(decision.Message), "rate") {
		t.Fatalf("expected rate-limit message, got %q", decision.Message)
	}
	if decision.Delay != 5*time.Second {
		t.Fatalf("expected 5s delay, got %s", decision.Delay)
	}
}

func TestParseRetryAfterNeverRaises(t *testing.T) {
	cases := []struct {
		body string
		want time.Duration
	}{
		{"", defaultRetryAfter},
		{"not json at all", defaultRetryAfter},
		{`{"retry-after":"oops"}`, defaultRetryAfter},
		{`{"retry_after": 2}`, 2 * time.Second},
		{`retry-after: 1.5`, 1500 * time.Millisecond},
		{`{"retry-after":"100000"}`, maxRetryAfter},
		{`{"Retry-After":"3"}`, 3 * time.Second},
	}
	for _, tc := range cases {
		if got := parseRetryAfter(tc.body); got != tc.want {
			t.Fatalf("body %q: expected %s, got %s", tc.body, tc.want, got)
		}
	}
}

func TestClassifyReflectCarriesBody(t *testing.T) {
	decision := Classify(&model.HTTPError{StatusCode: 400, Body: "tool input schema mismatch"})
	if decision.Action != ActionReflect {
		t.Fatalf("expected reflect, got %s", decision.Action)
	}
	if !strings.Contains(decision.Message, "schema mismatch") {
		t.Fatalf("expected body in message, got %q", decision.Message)
	}
	if decision.Delay != reflectDelay {
		t.Fatalf("expected fixed reflect delay, got %s", decision.Delay)
	}
}

func TestClassifyNonHTTP(t *testing.T) {
	decision := Classify(fmt.Errorf("dial tcp: connection refused"))
	if decision.Action != ActionBackoffRetry {
		t.Fatalf("expected backoff retry for network error, got %s", decision.Action)
	}

	wrapped := fmt.Errorf("request failed: %w", &model.HTTPError{StatusCode: 401})
	if got := Classify(wrapped); got.Action != ActionAbort {
		t.Fatalf("expected wrapped http error to classify by status, got %s", got.Action)
	}
	if !errors.As(wrapped, new(*model.HTTPError)) {
		t.Fatal("sanity: wrapped error should unwrap")
	}
}
