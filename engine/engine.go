// Package engine is the application-facing facade of the driver. Writes go
// through the batch processor; reads go through the optimizer, the query
// cache and the core client riding the connection pool.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/oginisearch/ogini-go/batch"
	"github.com/oginisearch/ogini-go/cache"
	"github.com/oginisearch/ogini-go/client"
	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/logging"
	"github.com/oginisearch/ogini-go/metrics"
	"github.com/oginisearch/ogini-go/optimizer"
	"github.com/oginisearch/ogini-go/pool"
	"github.com/oginisearch/ogini-go/query"
	"github.com/oginisearch/ogini-go/retry"
)

// Engine wires the driver components behind one entry point
type Engine struct {
	cfg       *config.Config
	client    *client.Client
	pool      *pool.Pool
	cache     *cache.QueryCache
	optimizer *optimizer.Optimizer
	batch     *batch.Processor
	collector metrics.Collector

	closeStore func() error
}

// Option configures an Engine
type Option func(*options)

type options struct {
	store     cache.Store
	collector metrics.Collector
	observer  batch.Observer
}

// WithStore replaces the cache backing store
func WithStore(s cache.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithCollector sets the metrics collector
func WithCollector(c metrics.Collector) Option {
	return func(o *options) {
		o.collector = c
	}
}

// WithObserver sets the batch progress observer
func WithObserver(obs batch.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New creates an engine from configuration
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{collector: metrics.NoOpCollector{}}
	for _, opt := range opts {
		opt(o)
	}

	e := &Engine{cfg: cfg, collector: o.collector}

	e.pool = pool.New(cfg.Pool)
	e.client = client.New(cfg.Client,
		client.WithDoer(e.pool),
		client.WithRetryPolicy(retry.New(cfg.Retry)))
	e.optimizer = optimizer.New(cfg.Optimizer)

	store := o.store
	if store == nil && cfg.Cache.Enabled {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Cache.Redis, cfg.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache store: %w", err)
		}
		store = redisStore
		e.closeStore = redisStore.Close
	}
	e.cache = cache.New(cfg.Cache, store, cache.WithCollector(o.collector))

	batchOpts := []batch.Option{batch.WithCollector(o.collector)}
	if o.observer != nil {
		batchOpts = append(batchOpts, batch.WithObserver(o.observer))
	}
	e.batch = batch.New(e.client, cfg.Batch, batchOpts...)

	return e, nil
}

// Search normalizes and optimizes the query, then answers from the cache
// or the upstream search endpoint.
func (e *Engine) Search(ctx context.Context, index string, body map[string]any) (*client.SearchResult, error) {
	q := e.optimizer.Optimize(query.Normalize(body))
	options := searchOptions(q)

	start := time.Now()
	res, err := cache.RememberQuery(ctx, e.cache, index, q, options, func(ctx context.Context) (*client.SearchResult, error) {
		return e.client.Search(ctx, index, q.ToMap())
	})
	e.collector.SearchQuery(time.Since(start), err)
	return res, err
}

// Suggest answers a suggestion request from the cache or upstream
func (e *Engine) Suggest(ctx context.Context, index, text, field string, size int) (*client.SuggestResult, error) {
	params := map[string]any{"text": text, "field": field, "size": size}

	start := time.Now()
	res, err := cache.RememberSuggestion(ctx, e.cache, index, params, func(ctx context.Context) (*client.SuggestResult, error) {
		return e.client.Suggest(ctx, index, text, field, size)
	})
	e.collector.Suggestion(time.Since(start), err)
	return res, err
}

// Facets runs a facet-only search with the facet cache TTL
func (e *Engine) Facets(ctx context.Context, index string, facets map[string]any) (*client.SearchResult, error) {
	q := &query.Query{Clause: query.Clause{Kind: query.MatchAll}, Facets: facets, Size: 0}
	params := map[string]any{"facets": facets}

	start := time.Now()
	res, err := cache.RememberFacets(ctx, e.cache, index, params, func(ctx context.Context) (*client.SearchResult, error) {
		return e.client.Search(ctx, index, q.ToMap())
	})
	e.collector.SearchQuery(time.Since(start), err)
	return res, err
}

// searchOptions extracts the non-query request parts that participate in
// the cache key
func searchOptions(q *query.Query) map[string]any {
	options := map[string]any{}
	if q.Size > 0 {
		options["size"] = q.Size
	}
	if q.From > 0 {
		options["from"] = q.From
	}
	if len(q.Fields) > 0 {
		options["fields"] = q.Fields
	}
	return options
}

// IndexRecords bulk-indexes records through the batch processor
func (e *Engine) IndexRecords(ctx context.Context, index string, records []any, mapFn batch.Mapper) *batch.Result {
	res := e.batch.BulkIndex(ctx, index, records, mapFn)
	e.cache.InvalidateIndex(ctx, index)
	return res
}

// DeleteRecords bulk-deletes records through the batch processor
func (e *Engine) DeleteRecords(ctx context.Context, index string, records []any, mapFn batch.Mapper) *batch.Result {
	res := e.batch.BulkDelete(ctx, index, records, mapFn)
	e.cache.InvalidateIndex(ctx, index)
	return res
}

// Analyze reports the complexity of a search body
func (e *Engine) Analyze(body map[string]any) optimizer.Analysis {
	return e.optimizer.Analyze(query.Normalize(body))
}

// Health probes upstream health and every pooled connection
func (e *Engine) Health(ctx context.Context) (*client.HealthStatus, map[int]pool.Health, error) {
	status, err := e.client.Health(ctx)
	e.collector.HealthCheck(err == nil)
	report := e.pool.HealthCheck(ctx)
	return status, report, err
}

// Client exposes the core client for direct single-document calls
func (e *Engine) Client() *client.Client {
	return e.client
}

// PoolStats returns per-connection statistics
func (e *Engine) PoolStats() []pool.Stats {
	return e.pool.GetStats()
}

// Maintain recycles idle or tripped pool connections
func (e *Engine) Maintain() int {
	return e.pool.Maintain()
}

// StartMaintenance runs pool maintenance in the background
func (e *Engine) StartMaintenance(ctx context.Context, interval time.Duration) {
	e.pool.StartMaintenance(ctx, interval)
}

// InvalidateIndex drops cached results for an index
func (e *Engine) InvalidateIndex(ctx context.Context, index string) {
	e.cache.InvalidateIndex(ctx, index)
}

// FlushCache drops all cached results
func (e *Engine) FlushCache(ctx context.Context) {
	e.cache.Flush(ctx)
}

// Close releases engine resources
func (e *Engine) Close() error {
	if e.closeStore != nil {
		if err := e.closeStore(); err != nil {
			logging.Warnf(context.Background(), "error closing cache store: %v", err)
			return err
		}
	}
	return nil
}
