package metrics

import (
	"sync/atomic"
	"time"
)

// Collector interface for driver metrics
type Collector interface {
	SearchQuery(duration time.Duration, err error)
	Suggestion(duration time.Duration, err error)
	CacheHit(kind string)
	CacheMiss(kind string)
	BulkOperation(operation string, documents, failures int)
	PoolRequest(connectionID int, err error)
	HealthCheck(healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(time.Duration, error) {}
func (NoOpCollector) Suggestion(time.Duration, error)  {}
func (NoOpCollector) CacheHit(string)                  {}
func (NoOpCollector) CacheMiss(string)                 {}
func (NoOpCollector) BulkOperation(string, int, int)   {}
func (NoOpCollector) PoolRequest(int, error)           {}
func (NoOpCollector) HealthCheck(bool)                 {}

// DriverCollector collects driver metrics with atomic counters
type DriverCollector struct {
	searchQueries   atomic.Int64
	searchErrors    atomic.Int64
	searchDuration  atomic.Int64 // nanoseconds
	suggestions     atomic.Int64
	suggestErrors   atomic.Int64
	cacheHits       atomic.Int64
	cacheMisses     atomic.Int64
	bulkOperations  atomic.Int64
	bulkDocuments   atomic.Int64
	bulkFailures    atomic.Int64
	poolRequests    atomic.Int64
	poolErrors      atomic.Int64
	healthChecks    atomic.Int64
	healthFailures  atomic.Int64
	lastSearchQuery atomic.Value // time.Time
}

// NewDriverCollector creates a new driver collector
func NewDriverCollector() *DriverCollector {
	c := &DriverCollector{}
	c.lastSearchQuery.Store(time.Time{})
	return c
}

func (c *DriverCollector) SearchQuery(duration time.Duration, err error) {
	c.searchQueries.Add(1)
	c.searchDuration.Add(duration.Nanoseconds())
	c.lastSearchQuery.Store(time.Now())
	if err != nil {
		c.searchErrors.Add(1)
	}
}

func (c *DriverCollector) Suggestion(duration time.Duration, err error) {
	c.suggestions.Add(1)
	if err != nil {
		c.suggestErrors.Add(1)
	}
}

func (c *DriverCollector) CacheHit(string) {
	c.cacheHits.Add(1)
}

func (c *DriverCollector) CacheMiss(string) {
	c.cacheMisses.Add(1)
}

func (c *DriverCollector) BulkOperation(_ string, documents, failures int) {
	c.bulkOperations.Add(1)
	c.bulkDocuments.Add(int64(documents))
	c.bulkFailures.Add(int64(failures))
}

func (c *DriverCollector) PoolRequest(_ int, err error) {
	c.poolRequests.Add(1)
	if err != nil {
		c.poolErrors.Add(1)
	}
}

func (c *DriverCollector) HealthCheck(healthy bool) {
	c.healthChecks.Add(1)
	if !healthy {
		c.healthFailures.Add(1)
	}
}

// Snapshot returns the current counter values
func (c *DriverCollector) Snapshot() map[string]int64 {
	return map[string]int64{
		"search_queries":  c.searchQueries.Load(),
		"search_errors":   c.searchErrors.Load(),
		"search_duration": c.searchDuration.Load(),
		"suggestions":     c.suggestions.Load(),
		"suggest_errors":  c.suggestErrors.Load(),
		"cache_hits":      c.cacheHits.Load(),
		"cache_misses":    c.cacheMisses.Load(),
		"bulk_operations": c.bulkOperations.Load(),
		"bulk_documents":  c.bulkDocuments.Load(),
		"bulk_failures":   c.bulkFailures.Load(),
		"pool_requests":   c.poolRequests.Load(),
		"pool_errors":     c.poolErrors.Load(),
		"health_checks":   c.healthChecks.Load(),
		"health_failures": c.healthFailures.Load(),
	}
}

// LastSearchQuery returns the time of the most recent search query
func (c *DriverCollector) LastSearchQuery() time.Time {
	t, _ := c.lastSearchQuery.Load().(time.Time)
	return t
}
