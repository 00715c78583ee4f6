package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-20250514"
	// AnthropicVersion is the fixed API version header value.
	AnthropicVersion = "2023-06-01"
	// AnthropicURL is the Messages API endpoint.
	AnthropicURL = "https://api.anthropic.com/v1/messages"

	maxResponseSize = 4 << 20
)

// LLM completes a single user prompt.
type LLM interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Message is one chat turn in a Messages API request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest is the request body shared by the direct and relay clients.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// NewMessagesRequest builds a single-turn user request.
func NewMessagesRequest(model, prompt string, maxTokens int) MessagesRequest {
	return MessagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}
}

// Claude talks to the Anthropic Messages API directly.
type Claude struct {
	apiKey string
	client *http.Client
	model  string
	url    string
}

// NewClaude returns a direct client using DefaultModel.
func NewClaude(apiKey string, timeout time.Duration) *Claude {
	return NewClaudeWithModel(apiKey, DefaultModel, timeout)
}

// NewClaudeWithModel returns a direct client for model.
func NewClaudeWithModel(apiKey, model string, timeout time.Duration) *Claude {
	return &Claude{
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		model:  model,
		url:    AnthropicURL,
	}
}

// Model returns the model name sent with every request.
func (c *Claude) Model() string {
	return c.model
}

// Complete sends prompt and returns the first text block of the reply.
func (c *Claude) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	headers := http.Header{}
	headers.Set("x-api-key", c.apiKey)
	headers.Set("anthropic-version", AnthropicVersion)
	return postMessages(ctx, c.client, c.url, headers, NewMessagesRequest(c.model, prompt, maxTokens))
}

// postMessages performs exactly one POST and extracts content[0].text.
func postMessages(ctx context.Context, client *http.Client, url string, headers http.Header, body MessagesRequest) (string, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &GatewayError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(respBytes)}
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &claudeResp); err != nil {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(respBytes), Err: fmt.Errorf("decode body: %w", err)}
	}
	if claudeResp.Error.Message != "" {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(respBytes), Err: errors.New(claudeResp.Error.Message)}
	}
	if len(claudeResp.Content) == 0 {
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(respBytes), Err: errors.New("empty response content")}
	}
	return claudeResp.Content[0].Text, nil
}
