package ai

import (
	"context"
)

// CompletionRequest is a single prompt sent to a reasoning service.
type CompletionRequest struct {
	Prompt    string
	System    string
	MaxTokens int
}

// CompletionResponse is the service's answer.
type CompletionResponse struct {
	Text  string
	Model string
	Usage TokenUsage
}

// TokenUsage tracks per-request token consumption for usage accounting.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
}

// Add accumulates another request's usage into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Provider is the interface for all reasoning backends. Implementations are
// swappable between the managed Azure endpoint, the direct OpenAI endpoint,
// and a deterministic mock without touching policy or I/O code.
type Provider interface {
	ID() string
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
