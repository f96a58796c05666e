// Package pool maintains a fixed set of pre-configured HTTP clients for the
// OginiSearch API, spreading requests across them round-robin and tracking
// per-connection health and usage. One Pool instance must be shared across
// callers that want pooling benefits; all state is mutex-guarded.
package pool

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/oginisearch/ogini-go/config"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Connection is one pooled HTTP client with its usage statistics.
// Replaced wholesale on recycling, never partially repaired.
type Connection struct {
	ID           int
	Client       *http.Client
	CreatedAt    time.Time
	LastUsed     time.Time
	RequestCount int64
	ErrorCount   int64
	Healthy      bool

	breaker *gobreaker.CircuitBreaker
}

// Stats is a point-in-time copy of a connection's statistics
type Stats struct {
	ID           int       `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsed     time.Time `json:"last_used"`
	RequestCount int64     `json:"request_count"`
	ErrorCount   int64     `json:"error_count"`
	Healthy      bool      `json:"healthy"`
}

// Health is the outcome of probing one connection
type Health struct {
	Healthy    bool   `json:"healthy"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Result is one slot of a concurrent dispatch. Index matches the position
// of the request in the input slice.
type Result struct {
	Index    int
	Response *http.Response
	Err      error
}

// Pool is a health-aware round-robin connection pool
type Pool struct {
	mu      sync.Mutex
	cfg     config.Pool
	conns   []*Connection
	next    int
	limiter *rate.Limiter
}

// New creates a connection pool from configuration
func New(cfg *config.Pool) *Pool {
	p := &Pool{cfg: *cfg}
	p.initialize()
	return p
}

// initialize builds the connection set and throttle from the current
// config. Caller must hold the lock except during construction.
func (p *Pool) initialize() {
	p.next = 0
	p.limiter = nil
	if p.cfg.RatePerSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(p.cfg.RatePerSecond), 1)
	}
	if !p.cfg.Enabled {
		p.conns = nil
		return
	}
	if p.cfg.Size < 1 {
		p.cfg.Size = 1
	}
	p.conns = make([]*Connection, p.cfg.Size)
	for i := range p.conns {
		p.conns[i] = p.newConnection(i)
	}
}

// newConnection builds one pooled connection with fresh statistics
func (p *Pool) newConnection(id int) *Connection {
	transport := &http.Transport{
		MaxConnsPerHost:   p.cfg.MaxConnsPerHost,
		IdleConnTimeout:   p.cfg.IdleConnTimeout,
		DisableKeepAlives: !p.cfg.KeepAlive,
		ForceAttemptHTTP2: p.cfg.HTTP2,
		DialContext: (&net.Dialer{
			Timeout:   p.cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &Connection{
		ID:        id,
		CreatedAt: time.Now(),
		Healthy:   true,
		Client: &http.Client{
			Timeout:   p.cfg.RequestTimeout,
			Transport: transport,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        fmt.Sprintf("ogini-conn-%d", id),
			MaxRequests: 100,
			Interval:    5 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
	}
}

// Get returns the next connection. With pooling disabled it constructs a
// fresh, unregistered connection every call; otherwise it advances the
// round-robin index and records usage on the selected slot.
func (p *Pool) Get() *Connection {
	if !p.cfg.Enabled {
		conn := p.newConnection(-1)
		conn.breaker = nil
		return conn
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	conn := p.conns[p.next]
	p.next = (p.next + 1) % len(p.conns)
	conn.LastUsed = time.Now()
	conn.RequestCount++
	return conn
}

// Do executes a request on the next pooled connection, waiting on the
// client-side throttle first. Transport errors and 5xx responses count
// against the selected connection's health. Satisfies client.Doer.
func (p *Pool) Do(req *http.Request) (*http.Response, error) {
	conn := p.Get()

	if p.limiter != nil {
		if err := p.limiter.Wait(req.Context()); err != nil {
			p.recordFailure(conn)
			return nil, err
		}
	}

	res, err := conn.Client.Do(req)
	if err != nil || res.StatusCode >= 500 {
		p.recordFailure(conn)
	}
	return res, err
}

// recordFailure marks a pooled connection unhealthy. Unhealthy connections
// remain selectable; recycling happens in Maintain.
func (p *Pool) recordFailure(conn *Connection) {
	if conn.ID < 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	conn.ErrorCount++
	conn.Healthy = false
}

// DoConcurrent dispatches up to concurrency requests in flight at once
// against one pooled connection. The result slice preserves input order; a
// failed request's slot holds its error without aborting the batch.
func (p *Pool) DoConcurrent(ctx context.Context, reqs []*http.Request, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = p.cfg.MaxConcurrent
	}

	conn := p.Get()
	results := make([]Result, len(reqs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req *http.Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := conn.Client.Do(req.WithContext(ctx))
			if err != nil || res.StatusCode >= 500 {
				p.recordFailure(conn)
			}
			results[i] = Result{Index: i, Response: res, Err: err}
		}(i, req)
	}
	wg.Wait()

	return results
}

// HealthCheck probes every pooled connection independently. Probes run
// through the per-connection circuit breaker; a failed probe marks that
// connection unhealthy.
func (p *Pool) HealthCheck(ctx context.Context) map[int]Health {
	p.mu.Lock()
	conns := append([]*Connection(nil), p.conns...)
	p.mu.Unlock()

	report := make(map[int]Health, len(conns))
	for _, conn := range conns {
		status, err := p.probe(ctx, conn)
		if err != nil {
			p.recordFailure(conn)
			report[conn.ID] = Health{Healthy: false, StatusCode: status, Error: err.Error()}
			continue
		}
		report[conn.ID] = Health{Healthy: true, StatusCode: status}
	}
	return report
}

// probe issues one health request through the connection's breaker
func (p *Pool) probe(ctx context.Context, conn *Connection) (int, error) {
	result, err := conn.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"/health", nil)
		if err != nil {
			return 0, err
		}
		if p.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
		}
		if p.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", p.cfg.UserAgent)
		}

		res, err := conn.Client.Do(req)
		if err != nil {
			return 0, err
		}
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()

		if res.StatusCode >= 400 {
			return res.StatusCode, fmt.Errorf("health probe returned status %d", res.StatusCode)
		}
		return res.StatusCode, nil
	})

	status, _ := result.(int)
	return status, err
}

// Maintain recycles connections idle beyond max_idle_time and connections
// whose probe breaker is open: full replacement with fresh statistics, not
// partial repair. Returns the number of recycled connections.
func (p *Pool) Maintain() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	recycled := 0
	now := time.Now()
	for i, conn := range p.conns {
		idleSince := conn.LastUsed
		if idleSince.IsZero() {
			idleSince = conn.CreatedAt
		}
		if now.Sub(idleSince) > p.cfg.MaxIdleTime || conn.breaker.State() == gobreaker.StateOpen {
			p.conns[i] = p.newConnection(i)
			recycled++
		}
	}
	return recycled
}

// StartMaintenance runs Maintain on the given interval until the context
// is cancelled. Opt-in; the pool does no background work otherwise.
func (p *Pool) StartMaintenance(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Maintain()
			}
		}
	}()
}

// GetStats returns a snapshot of every pooled connection's statistics
func (p *Pool) GetStats() []Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := make([]Stats, len(p.conns))
	for i, conn := range p.conns {
		stats[i] = Stats{
			ID:           conn.ID,
			CreatedAt:    conn.CreatedAt,
			LastUsed:     conn.LastUsed,
			RequestCount: conn.RequestCount,
			ErrorCount:   conn.ErrorCount,
			Healthy:      conn.Healthy,
		}
	}
	return stats
}

// Config returns a copy of the current pool configuration
func (p *Pool) Config() config.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg
}
