package pipeline

import (
	"context"
	"fmt"

	"github.com/mikey/email-reconciler/internal/core"
	"golang.org/x/time/rate"
)

// RateLimitedClient gates every call of the wrapped LLM client on a shared
// token bucket
type RateLimitedClient struct {
	client  core.LLMClient
	limiter *rate.Limiter
}

// NewRateLimitedClient wraps client with a limiter allowing perSecond calls
// with the given burst. A non-positive perSecond disables limiting.
func NewRateLimitedClient(client core.LLMClient, perSecond float64, burst int) *RateLimitedClient {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ParseRecipient waits for a token and delegates
func (c *RateLimitedClient) ParseRecipient(ctx context.Context, in *core.LLMInput) (*core.LLMExtractionResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("LLM rate limit wait: %w", err)
	}
	return c.client.ParseRecipient(ctx, in)
}

// MatchUser waits for a token and delegates
func (c *RateLimitedClient) MatchUser(ctx context.Context, mc *core.MatchContext) (*core.LLMMatchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("LLM rate limit wait: %w", err)
	}
	return c.client.MatchUser(ctx, mc)
}

// ModelName returns the wrapped client's model
func (c *RateLimitedClient) ModelName() string {
	return c.client.ModelName()
}

// Close closes the wrapped client when it holds resources
func (c *RateLimitedClient) Close() error {
	if closer, ok := c.client.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
