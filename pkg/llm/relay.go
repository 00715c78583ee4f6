package llm

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// RelayPath is where the local server accepts completion requests.
const RelayPath = "/api/claude"

// Relay sends completion requests through the local relay server, which
// injects the API key. No credentials leave this process.
type Relay struct {
	baseURL string
	client  *http.Client
	model   string
}

// NewRelay returns a client for the relay at baseURL.
func NewRelay(baseURL, model string, timeout time.Duration) *Relay {
	if model == "" {
		model = DefaultModel
	}
	return &Relay{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		model:   model,
	}
}

// Model returns the model name sent with every request.
func (r *Relay) Model() string {
	return r.model
}

// Complete sends prompt to the relay and returns the first text block.
func (r *Relay) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return postMessages(ctx, r.client, r.baseURL+RelayPath, nil, NewMessagesRequest(r.model, prompt, maxTokens))
}
