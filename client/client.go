package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/ecode"
	"github.com/oginisearch/ogini-go/retry"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Doer executes a single HTTP request. *http.Client satisfies it, and so
// does *pool.Pool, which is how the client rides the connection pool.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the low-level OginiSearch API client
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	doer      Doer
	policy    *retry.Policy
}

// Option configures a Client
type Option func(*Client)

// WithDoer replaces the HTTP transport
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithRetryPolicy replaces the retry policy
func WithRetryPolicy(p *retry.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// New creates a new OginiSearch client
func New(cfg *config.Client, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		policy:    retry.Default(),
		doer: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request issues one API call with the retry policy applied. The body is
// marshaled once and re-buffered per attempt.
func (c *Client) request(ctx context.Context, method, path string, params url.Values, body, out any) error {
	if c == nil || c.doer == nil {
		return fmt.Errorf("ogini client is nil, cannot issue request")
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request body: %w", err)
		}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	for attempt := 1; ; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return fmt.Errorf("error building request: %w", err)
		}
		c.setHeaders(req, payload != nil)

		res, err := c.doer.Do(req)
		if err != nil {
			if c.policy.ShouldRetry(attempt, 0, err) {
				if serr := sleep(ctx, c.policy.DelayFor(attempt)); serr != nil {
					return serr
				}
				continue
			}
			return &ecode.ConnectionError{Op: method, URL: u, Attempts: attempt, Err: err}
		}

		data, readErr := io.ReadAll(res.Body)
		_ = res.Body.Close()

		if res.StatusCode >= 400 {
			if c.policy.ShouldRetry(attempt, res.StatusCode, nil) {
				if serr := sleep(ctx, c.policy.DelayFor(attempt)); serr != nil {
					return serr
				}
				continue
			}
			return parseAPIError(res.StatusCode, data)
		}
		if readErr != nil {
			return fmt.Errorf("error reading response body: %w", readErr)
		}

		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("error decoding response body: %w", err)
			}
		}
		return nil
	}
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if id, err := gonanoid.New(); err == nil {
		req.Header.Set("X-Request-Id", id)
	}
}

// parseAPIError builds an APIError from an upstream error body, preserving
// any machine code and structured details verbatim.
func parseAPIError(status int, data []byte) *ecode.APIError {
	apiErr := ecode.NewAPIError(status, "")
	if len(data) == 0 {
		return apiErr
	}

	var parsed struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	if parsed.Message != "" {
		apiErr.Message = parsed.Message
	} else if parsed.Error != "" {
		apiErr.Message = parsed.Error
	}
	apiErr.Code = parsed.Code
	apiErr.Details = parsed.Details
	return apiErr
}

// sleep waits for the given duration or until the context is cancelled
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
