// Package model is the provider-agnostic LLM abstraction used for
// disposable model calls (history summarization) and the chat runner.
package model

import "context"

// Role identifies message author type.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single element of model context.
type ChatMessage struct {
	Role Role
	Text string
}

// Request is a provider-agnostic completion request.
type Request struct {
	System    string
	Messages  []ChatMessage
	MaxTokens int
}

// Usage reports token usage for one completion (best-effort).
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is a provider-agnostic completion response.
type Response struct {
	Text  string
	Usage Usage
}

// LLM is the model abstraction consumed by the kernel.
type LLM interface {
	Name() string
	Complete(context.Context, *Request) (*Response, error)
}
