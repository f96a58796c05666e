// Package cache memoizes search, suggestion and facet results in a
// pluggable key-value store. The cache is advisory: any store failure
// degrades to compute-and-return and is never surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oginisearch/ogini-go/config"
	"github.com/oginisearch/ogini-go/logging"
	"github.com/oginisearch/ogini-go/metrics"
	"github.com/oginisearch/ogini-go/query"
)

// Cacheable is implemented by result types that carry cache metadata.
// Metadata is stamped on the write path only; a stored value keeps the
// from_cache recorded at write time and is returned unmodified on a hit,
// so callers that need hit detection compare cached_at instead.
type Cacheable interface {
	SetCacheMetadata(key string, cachedAt time.Time, fromCache bool)
}

// QueryCache wraps a Store with key normalization and per-category TTLs
type QueryCache struct {
	cfg       config.Cache
	store     Store
	collector metrics.Collector
}

// Option configures a QueryCache
type Option func(*QueryCache)

// WithCollector sets the metrics collector
func WithCollector(c metrics.Collector) Option {
	return func(qc *QueryCache) {
		qc.collector = c
	}
}

// New creates a query cache over the given store
func New(cfg *config.Cache, store Store, opts ...Option) *QueryCache {
	qc := &QueryCache{
		cfg:       *cfg,
		store:     store,
		collector: metrics.NoOpCollector{},
	}
	for _, opt := range opts {
		opt(qc)
	}
	return qc
}

// Enabled reports whether caching is active
func (qc *QueryCache) Enabled() bool {
	return qc != nil && qc.cfg.Enabled && qc.store != nil
}

// TTLForQuery picks the TTL for a search query: filtered queries cache for
// half the query TTL, text queries for the full query TTL, everything else
// for the default TTL.
func (qc *QueryCache) TTLForQuery(q *query.Query) time.Duration {
	if hasFilter(q) {
		return qc.cfg.QueryTTL / 2
	}
	if q != nil && q.Clause.Kind == query.Match && q.Clause.Value != "" {
		return qc.cfg.QueryTTL
	}
	return qc.cfg.DefaultTTL
}

func hasFilter(q *query.Query) bool {
	if q == nil || q.Filter == nil {
		return false
	}
	switch f := q.Filter.(type) {
	case map[string]any:
		return len(f) > 0
	case []any:
		return len(f) > 0
	}
	return true
}

// QueryKey returns the cache key a search query resolves to
func (qc *QueryCache) QueryKey(index string, q *query.Query, options map[string]any) string {
	params := map[string]any{"query": q.ToMap(), "options": options}
	return GenerateKey(qc.cfg.Prefix, TypeQuery, index, params)
}

// RememberQuery memoizes a search result under the normalized key of
// (index, query, options) with the adaptive query TTL.
func RememberQuery[T any](ctx context.Context, qc *QueryCache, index string, q *query.Query, options map[string]any, compute func(context.Context) (T, error)) (T, error) {
	if !qc.Enabled() {
		return compute(ctx)
	}
	params := map[string]any{"query": q.ToMap(), "options": options}
	return remember[T](ctx, qc, TypeQuery, index, params, qc.TTLForQuery(q), compute)
}

// RememberSuggestion memoizes a suggestion result with the suggestion TTL
func RememberSuggestion[T any](ctx context.Context, qc *QueryCache, index string, params map[string]any, compute func(context.Context) (T, error)) (T, error) {
	if !qc.Enabled() {
		return compute(ctx)
	}
	return remember[T](ctx, qc, TypeSuggestion, index, params, qc.cfg.SuggestionTTL, compute)
}

// RememberFacets memoizes a facet result with the facet TTL
func RememberFacets[T any](ctx context.Context, qc *QueryCache, index string, params map[string]any, compute func(context.Context) (T, error)) (T, error) {
	if !qc.Enabled() {
		return compute(ctx)
	}
	return remember[T](ctx, qc, TypeFacet, index, params, qc.cfg.FacetTTL, compute)
}

// remember is the compute-if-absent primitive. On a hit the stored value
// is decoded and returned unmodified; on a miss the computed value gets
// cache metadata stamped before being stored and returned.
func remember[T any](ctx context.Context, qc *QueryCache, opType, index string, params map[string]any, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	key := GenerateKey(qc.cfg.Prefix, opType, index, params)

	data, ok, err := qc.store.Get(ctx, key)
	if err != nil {
		logging.Warnf(ctx, "cache get failed for %s, degrading to compute: %v", key, err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(data, &cached); err != nil {
			logging.Warnf(ctx, "cache decode failed for %s, degrading to compute: %v", key, err)
		} else {
			qc.collector.CacheHit(opType)
			return cached, nil
		}
	}

	qc.collector.CacheMiss(opType)
	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if c, ok := any(value).(Cacheable); ok {
		c.SetCacheMetadata(key, time.Now(), false)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logging.Warnf(ctx, "cache encode failed for %s: %v", key, err)
		return value, nil
	}
	if err := qc.store.Set(ctx, key, encoded, ttl); err != nil {
		logging.Warnf(ctx, "cache set failed for %s: %v", key, err)
	}
	return value, nil
}

// InvalidateIndex clears cached results for an index. Best-effort: with no
// bulk-clear primitive on the store this is a no-op, and failures are
// logged, never returned.
func (qc *QueryCache) InvalidateIndex(ctx context.Context, index string) {
	if !qc.Enabled() {
		return
	}
	flusher, ok := qc.store.(Flusher)
	if !ok {
		return
	}
	if err := flusher.Flush(ctx); err != nil {
		logging.Warnf(ctx, "cache invalidation for index %s failed: %v", index, err)
	}
}

// Flush clears the whole cache, best-effort
func (qc *QueryCache) Flush(ctx context.Context) {
	if !qc.Enabled() {
		return
	}
	flusher, ok := qc.store.(Flusher)
	if !ok {
		return
	}
	if err := flusher.Flush(ctx); err != nil {
		logging.Warnf(ctx, "cache flush failed: %v", err)
	}
}
