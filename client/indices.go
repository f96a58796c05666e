package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateIndex creates a new index with optional settings
func (c *Client) CreateIndex(ctx context.Context, name string, settings map[string]any) (*IndexInfo, error) {
	body := map[string]any{"name": name}
	if settings != nil {
		body["settings"] = settings
	}

	var info IndexInfo
	if err := c.request(ctx, http.MethodPost, "/api/indices", nil, body, &info); err != nil {
		return nil, fmt.Errorf("ogini create index error: %w", err)
	}
	return &info, nil
}

// GetIndex retrieves index information
func (c *Client) GetIndex(ctx context.Context, name string) (*IndexInfo, error) {
	var info IndexInfo
	if err := c.request(ctx, http.MethodGet, "/api/indices/"+url.PathEscape(name), nil, nil, &info); err != nil {
		return nil, fmt.Errorf("ogini get index error: %w", err)
	}
	return &info, nil
}

// ListIndices lists all indices
func (c *Client) ListIndices(ctx context.Context) ([]IndexInfo, error) {
	var res struct {
		Indices []IndexInfo `json:"indices"`
	}
	if err := c.request(ctx, http.MethodGet, "/api/indices", nil, nil, &res); err != nil {
		return nil, fmt.Errorf("ogini list indices error: %w", err)
	}
	return res.Indices, nil
}

// UpdateIndexSettings updates the settings of an existing index
func (c *Client) UpdateIndexSettings(ctx context.Context, name string, settings map[string]any) error {
	path := "/api/indices/" + url.PathEscape(name) + "/settings"
	if err := c.request(ctx, http.MethodPut, path, nil, settings, nil); err != nil {
		return fmt.Errorf("ogini update index settings error: %w", err)
	}
	return nil
}

// DeleteIndex deletes an index
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if err := c.request(ctx, http.MethodDelete, "/api/indices/"+url.PathEscape(name), nil, nil, nil); err != nil {
		return fmt.Errorf("ogini delete index error: %w", err)
	}
	return nil
}

// GetSynonyms retrieves the synonym groups of an index
func (c *Client) GetSynonyms(ctx context.Context, name string) ([][]string, error) {
	var res struct {
		Synonyms [][]string `json:"synonyms"`
	}
	path := "/api/indices/" + url.PathEscape(name) + "/_synonyms"
	if err := c.request(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, fmt.Errorf("ogini get synonyms error: %w", err)
	}
	return res.Synonyms, nil
}

// UpdateSynonyms replaces the synonym groups of an index
func (c *Client) UpdateSynonyms(ctx context.Context, name string, synonyms [][]string) error {
	path := "/api/indices/" + url.PathEscape(name) + "/_synonyms"
	body := map[string]any{"synonyms": synonyms}
	if err := c.request(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("ogini update synonyms error: %w", err)
	}
	return nil
}

// GetStopwords retrieves the stopword list of an index
func (c *Client) GetStopwords(ctx context.Context, name string) ([]string, error) {
	var res struct {
		Stopwords []string `json:"stopwords"`
	}
	path := "/api/indices/" + url.PathEscape(name) + "/_stopwords"
	if err := c.request(ctx, http.MethodGet, path, nil, nil, &res); err != nil {
		return nil, fmt.Errorf("ogini get stopwords error: %w", err)
	}
	return res.Stopwords, nil
}

// UpdateStopwords replaces the stopword list of an index
func (c *Client) UpdateStopwords(ctx context.Context, name string, stopwords []string) error {
	path := "/api/indices/" + url.PathEscape(name) + "/_stopwords"
	body := map[string]any{"stopwords": stopwords}
	if err := c.request(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("ogini update stopwords error: %w", err)
	}
	return nil
}

// Health checks upstream health
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.request(ctx, http.MethodGet, "/health", nil, nil, &status); err != nil {
		return nil, fmt.Errorf("ogini health check error: %w", err)
	}
	return &status, nil
}
