package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Chain attempts providers in a fixed priority order. Rate-limit errors get
// up to maxAttempts tries with a fixed backoff against the same provider;
// any other failure falls straight through to the next one.
type Chain struct {
	providers   []Provider
	maxAttempts int
	backoff     time.Duration
}

// NewChain builds a chain over the given providers, first entry tried first.
func NewChain(providers []Provider, maxAttempts int, backoff time.Duration) *Chain {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Chain{
		providers:   providers,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// Complete returns the first successful completion along with the name of
// the provider that produced it. No provider after the first success is
// called. Returns ErrExhausted when every provider failed.
func (c *Chain) Complete(ctx context.Context, req CompletionRequest) (string, string, error) {
	for _, p := range c.providers {
		text, err := c.completeWithRetry(ctx, p, req)
		if err == nil {
			return text, p.Name(), nil
		}
		if !errors.Is(err, ErrNotConfigured) {
			log.Printf("Provider %s failed, falling through: %v", p.Name(), err)
		}
	}
	return "", "", ErrExhausted
}

func (c *Chain) completeWithRetry(ctx context.Context, p Provider, req CompletionRequest) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		text, err := p.Complete(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Only 429s are worth waiting out; everything else falls through.
		if !errors.Is(err, ErrRateLimited) || attempt == c.maxAttempts {
			return "", lastErr
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(c.backoff):
		}
	}
	return "", lastErr
}

// Available reports whether any provider in the chain has configuration.
func (c *Chain) Available() bool {
	type configured interface{ IsConfigured() bool }
	for _, p := range c.providers {
		if cp, ok := p.(configured); ok && cp.IsConfigured() {
			return true
		}
	}
	return false
}
