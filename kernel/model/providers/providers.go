// Package providers implements model.LLM over provider HTTP APIs.
package providers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arlenmoss/strophe/kernel/model"
)

// Config selects and configures one provider-backed LLM.
type Config struct {
	Provider        string // "anthropic" or "openai"
	Model           string
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	MaxOutputTokens int
}

// New builds an LLM for the configured provider.
func New(cfg Config) (model.LLM, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("providers: model is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "anthropic":
		return newAnthropic(cfg), nil
	case "openai", "openai_compat", "":
		return newOpenAICompat(cfg), nil
	default:
		return nil, fmt.Errorf("providers: unknown provider %q", cfg.Provider)
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1024
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return cfg
}

func statusError(resp *http.Response) error {
	if resp == nil {
		return fmt.Errorf("providers: empty http response")
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}
