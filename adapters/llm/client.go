// Package llm provides chat completion clients.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lemur/internal/errors"
	"lemur/ports"
)

// OpenAIClient implements ports.LLMClient against the Chat Completions API
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// NewOpenAIClient creates a client or fails when the key is missing
func NewOpenAIClient(apiKey, baseURL string, temperature float64) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ConfigInvalid("missing OpenAI API key")
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		APIKey:      apiKey,
		BaseURL:     base,
		Timeout:     60 * time.Second,
		Temperature: temperature,
	}, nil
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, messages []ports.ChatMessage, maxTokens int) (string, error) {
	if strings.TrimSpace(model) == "" {
		return "", fmt.Errorf("missing model")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("missing messages")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	type reqBody struct {
		Model       string              `json:"model"`
		Messages    []ports.ChatMessage `json:"messages"`
		Temperature float64             `json:"temperature,omitempty"`
		MaxTokens   int                 `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model:       model,
		Messages:    messages,
		Temperature: c.Temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", errors.ExternalServiceError("openai", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.ExternalServiceError("openai", fmt.Errorf("http %d: %s", resp.StatusCode, string(respRaw)))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

// MockLLMClient is a canned-response client for tests and keyless setups
type MockLLMClient struct {
	Response string // Set this for testing
	Error    error  // Set this to simulate errors
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, messages []ports.ChatMessage, maxTokens int) (string, error) {
	if m.Error != nil {
		return "", m.Error
	}
	if m.Response != "" {
		return m.Response, nil
	}
	// Echo enough of the question that the UI stays usable without a key
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	return fmt.Sprintf("**Mock analysis mode.** No API key is configured, so here is a placeholder answer.\n\nYou asked: %q\n\nThe data profile above contains the statistics needed to answer this; configure OPENAI_API_KEY for a full response.", truncate(last, 200)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
