package client

import (
	"time"
)

// Document is an indexable document: a caller-assigned ID plus fields
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"document"`
}

// IndexInfo describes an index
type IndexInfo struct {
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	DocumentCount int64          `json:"documentCount"`
	Settings      map[string]any `json:"settings,omitempty"`
	Mappings      map[string]any `json:"mappings,omitempty"`
	CreatedAt     time.Time      `json:"createdAt,omitempty"`
}

// BulkItem is the per-document outcome of a bulk request
type BulkItem struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BulkResponse is the response of a bulk index request
type BulkResponse struct {
	Took       int64      `json:"took"`
	Successful int        `json:"successful"`
	Items      []BulkItem `json:"items,omitempty"`
}

// Hit is a single search hit
type Hit struct {
	ID        string         `json:"id"`
	Score     float64        `json:"score"`
	Source    map[string]any `json:"source"`
	Highlight map[string]any `json:"highlight,omitempty"`
}

// SearchResult is the response of a search request. The trailing cache
// fields are stamped by the query cache on the write path.
type SearchResult struct {
	Total  int64          `json:"total"`
	Took   int64          `json:"took"`
	Hits   []Hit          `json:"hits"`
	Facets map[string]any `json:"facets,omitempty"`

	CachedAt  time.Time `json:"cached_at,omitempty"`
	CacheKey  string    `json:"cache_key,omitempty"`
	FromCache bool      `json:"from_cache"`
}

// SetCacheMetadata implements cache.Cacheable
func (r *SearchResult) SetCacheMetadata(key string, cachedAt time.Time, fromCache bool) {
	r.CacheKey = key
	r.CachedAt = cachedAt
	r.FromCache = fromCache
}

// Suggestion is a single suggestion entry
type Suggestion struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// SuggestResult is the response of a suggestion request
type SuggestResult struct {
	Suggestions []Suggestion `json:"suggestions"`

	CachedAt  time.Time `json:"cached_at,omitempty"`
	CacheKey  string    `json:"cache_key,omitempty"`
	FromCache bool      `json:"from_cache"`
}

// SetCacheMetadata implements cache.Cacheable
func (r *SuggestResult) SetCacheMetadata(key string, cachedAt time.Time, fromCache bool) {
	r.CacheKey = key
	r.CachedAt = cachedAt
	r.FromCache = fromCache
}

// HealthStatus is the upstream health report
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// DocumentPage is a page of documents from a listing request
type DocumentPage struct {
	Total     int64      `json:"total"`
	Documents []Document `json:"documents"`
}
