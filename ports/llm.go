package ports

import "context"

// ChatMessage is one message in a chat completion request
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient interface for LLM providers
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, messages []ChatMessage, maxTokens int) (string, error)
}
