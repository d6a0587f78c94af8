package model

import (
	"fmt"
	"strings"
)

// HTTPError is a non-2xx provider response. The status code and body are
// preserved so the recovery layer can classify the failure instead of
// string-matching error text.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "model: http error"
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("model: http status %d", e.StatusCode)
	}
	return fmt.Sprintf("model: http status %d body=%s", e.StatusCode, body)
}
