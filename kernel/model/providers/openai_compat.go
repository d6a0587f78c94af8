package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arlenmoss/strophe/kernel/model"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

type openAICompatLLM struct {
	name         string
	baseURL      string
	token        string
	client       *http.Client
	maxOutputTok int
}

func newOpenAICompat(cfg Config) model.LLM {
	cfg = normalizeConfig(cfg)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAICompatLLM{
		name:         cfg.Model,
		baseURL:      baseURL,
		token:        cfg.APIKey,
		client:       &http.Client{Timeout: cfg.Timeout},
		maxOutputTok: cfg.MaxOutputTokens,
	}
}

func (l *openAICompatLLM) Name() string {
	return l.name
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (l *openAICompatLLM) Complete(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("providers: request is nil")
	}
	payload := openAIRequest{
		Model:     l.name,
		MaxTokens: l.maxOutputTok,
	}
	if req.MaxTokens > 0 {
		payload.MaxTokens = req.MaxTokens
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, openAIMessage{Role: "system", Content: req.System})
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, openAIMessage{Role: string(msg.Role), Content: msg.Text})
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if l.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+l.token)
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}
	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("providers: decode response: %w", err)
	}
	out := &model.Response{
		Usage: model.Usage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		},
	}
	if len(decoded.Choices) > 0 {
		out.Text = decoded.Choices[0].Message.Content
	}
	return out, nil
}
