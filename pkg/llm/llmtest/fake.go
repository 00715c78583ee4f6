// Package llmtest provides scripted LLM implementations for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/helmcode/actionplan/pkg/llm"
)

// Reply is one scripted answer. Err takes precedence over Text.
type Reply struct {
	Text string
	Err  error
}

// Call records one Complete invocation.
type Call struct {
	Prompt    string
	MaxTokens int
}

// Scripted returns replies in order. Once the script is exhausted every call
// fails with a GatewayError.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// NewScripted returns a Scripted LLM with the given replies.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Push appends replies to the script.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Complete implements llm.LLM.
func (s *Scripted) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Prompt: prompt, MaxTokens: maxTokens})
	if err := ctx.Err(); err != nil {
		return "", &llm.GatewayError{Err: err}
	}
	if len(s.replies) == 0 {
		return "", &llm.GatewayError{StatusCode: 503, Body: `{"error":"script exhausted"}`}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Calls returns a copy of the recorded calls.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Failing always returns a GatewayError with the given status.
type Failing struct {
	StatusCode int
}

// Complete implements llm.LLM.
func (f Failing) Complete(context.Context, string, int) (string, error) {
	return "", &llm.GatewayError{StatusCode: f.StatusCode, Body: `{"error":"unavailable"}`}
}
