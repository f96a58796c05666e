package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Search executes a search request against an index
func (c *Client) Search(ctx context.Context, index string, body map[string]any) (*SearchResult, error) {
	path := "/api/indices/" + url.PathEscape(index) + "/_search"
	var res SearchResult
	if err := c.request(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return nil, fmt.Errorf("ogini search error: %w", err)
	}
	return &res, nil
}

// Suggest executes a suggestion request against an index
func (c *Client) Suggest(ctx context.Context, index, text, field string, size int) (*SuggestResult, error) {
	path := "/api/indices/" + url.PathEscape(index) + "/_search/_suggest"
	body := map[string]any{"text": text}
	if field != "" {
		body["field"] = field
	}
	if size > 0 {
		body["size"] = size
	}

	var res SuggestResult
	if err := c.request(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return nil, fmt.Errorf("ogini suggest error: %w", err)
	}
	return &res, nil
}
