package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// IndexDocument indexes a single document
func (c *Client) IndexDocument(ctx context.Context, index string, doc Document) error {
	path := "/api/indices/" + url.PathEscape(index) + "/documents"
	if err := c.request(ctx, http.MethodPost, path, nil, doc, nil); err != nil {
		return fmt.Errorf("ogini index document error: %w", err)
	}
	return nil
}

// GetDocument retrieves a single document
func (c *Client) GetDocument(ctx context.Context, index, id string) (*Document, error) {
	path := "/api/indices/" + url.PathEscape(index) + "/documents/" + url.PathEscape(id)
	var doc Document
	if err := c.request(ctx, http.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, fmt.Errorf("ogini get document error: %w", err)
	}
	return &doc, nil
}

// UpdateDocument replaces a single document
func (c *Client) UpdateDocument(ctx context.Context, index string, doc Document) error {
	path := "/api/indices/" + url.PathEscape(index) + "/documents/" + url.PathEscape(doc.ID)
	body := map[string]any{"document": doc.Fields}
	if err := c.request(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("ogini update document error: %w", err)
	}
	return nil
}

// DeleteDocument deletes a single document
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	path := "/api/indices/" + url.PathEscape(index) + "/documents/" + url.PathEscape(id)
	if err := c.request(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("ogini delete document error: %w", err)
	}
	return nil
}

// ListDocuments retrieves a page of documents
func (c *Client) ListDocuments(ctx context.Context, index string, size, from int) (*DocumentPage, error) {
	params := url.Values{}
	if size > 0 {
		params.Set("size", strconv.Itoa(size))
	}
	if from > 0 {
		params.Set("from", strconv.Itoa(from))
	}

	path := "/api/indices/" + url.PathEscape(index) + "/documents"
	var page DocumentPage
	if err := c.request(ctx, http.MethodGet, path, params, nil, &page); err != nil {
		return nil, fmt.Errorf("ogini list documents error: %w", err)
	}
	return &page, nil
}

// BulkIndex indexes multiple documents in one request
func (c *Client) BulkIndex(ctx context.Context, index string, docs []Document) (*BulkResponse, error) {
	path := "/api/indices/" + url.PathEscape(index) + "/documents/_bulk"
	body := map[string]any{"documents": docs}
	var res BulkResponse
	if err := c.request(ctx, http.MethodPost, path, nil, body, &res); err != nil {
		return nil, fmt.Errorf("ogini bulk index error: %w", err)
	}
	return &res, nil
}
