// Package retry implements the transport retry policy: exponential backoff
// with uniform jitter, retrying on connection failures, 5xx, 408 and 429.
package retry

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/oginisearch/ogini-go/config"
)

// Policy decides whether and when a failed request is retried
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// jitter returns a fraction in [0,1); replaceable for tests
	jitter func() float64
}

// New creates a retry policy from configuration
func New(cfg *config.Retry) *Policy {
	if cfg == nil {
		return Default()
	}
	return &Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		jitter:      rand.Float64,
	}
}

// Default returns the default policy: 3 attempts, 100ms base delay
func Default() *Policy {
	return &Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		jitter:      rand.Float64,
	}
}

// WithJitterSource replaces the jitter source, for deterministic tests
func (p *Policy) WithJitterSource(fn func() float64) *Policy {
	p.jitter = fn
	return p
}

// ShouldRetry reports whether the request should be retried.
// attempt is 1-based; statusCode 0 means no response was received.
func (p *Policy) ShouldRetry(attempt, statusCode int, err error) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	if err != nil {
		// transport-level failure, always retryable
		return true
	}
	if statusCode >= 500 {
		return true
	}
	if statusCode == http.StatusRequestTimeout || statusCode == http.StatusTooManyRequests {
		return true
	}
	return false
}

// DelayFor returns the backoff delay before the given attempt:
// BaseDelay * 2^(attempt-1) plus uniform jitter in [0, 10%] of that value.
func (p *Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay << (attempt - 1)
	jitter := time.Duration(p.jitter() * 0.1 * float64(delay))
	return delay + jitter
}
