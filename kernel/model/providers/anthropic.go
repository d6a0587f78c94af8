package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/arlenmoss/strophe/kernel/model"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com/v1"

type anthropicLLM struct {
	name         string
	baseURL      string
	token        string
	client       *http.Client
	maxOutputTok int
}

func newAnthropic(cfg Config) model.LLM {
	cfg = normalizeConfig(cfg)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	return &anthropicLLM{
		name:         cfg.Model,
		baseURL:      baseURL,
		token:        cfg.APIKey,
		client:       &http.Client{Timeout: cfg.Timeout},
		maxOutputTok: cfg.MaxOutputTokens,
	}
}

func (l *anthropicLLM) Name() string {
	return l.name
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (l *anthropicLLM) Complete(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("providers: request is nil")
	}
	payload := anthropicRequest{
		Model:     l.name,
		System:    req.System,
		MaxTokens: l.maxOutputTok,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == model.RoleAssistant {
			role = "assistant"
		}
		payload.Messages = append(payload.Messages, anthropicMessage{Role: role, Content: msg.Text})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/messages", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", l.token)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("providers: decode anthropic response: %w", err)
	}
	var b strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return &model.Response{
		Text: b.String(),
		Usage: model.Usage{
			PromptTokens:     decoded.Usage.InputTokens,
			CompletionTokens: decoded.Usage.OutputTokens,
			TotalTokens:      decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
		},
	}, nil
}
