// Package provider defines the contract shared by every hosted LLM backend
// and the ordered fallthrough chain that iterates them. The wizard never
// talks to a client directly; it goes through a Chain so a provider outage
// degrades instead of failing.
package provider

import (
	"context"
	"errors"

	"github.com/releasewizard/api/internal/model"
)

var (
	// ErrRateLimited marks a 429 from a provider. It is the only error
	// class the chain retries against the same provider.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrNotConfigured marks a client constructed without an API key.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrExhausted is returned when every provider in the chain failed.
	ErrExhausted = errors.New("all providers exhausted")
)

// CompletionRequest is the narrow contract to a hosted chat-completion API.
// Temperature must be 0 when the result feeds extraction or classification.
type CompletionRequest struct {
	System      string
	History     []model.ConversationTurn
	User        string
	Temperature float64
	MaxTokens   int
}

// Provider is one hosted LLM backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
