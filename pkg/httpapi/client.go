package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/revio/revio/pkg/core"
)

// Client is the typed HTTP client for the reviews API, used by the watch
// command and by the reconciler's undo path.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a Client for a server base URL such as
// "http://localhost:6060".
func NewClient(base string) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &Client{baseURL: u, http: http.DefaultClient}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, resp.Body)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// List fetches one snapshot page.
func (c *Client) List(ctx context.Context, q core.Query) (core.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.PageSize))
	query.Set("sort", string(q.Sort))
	query.Set("order", string(q.Order))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	var page core.Page
	err := c.do(ctx, http.MethodGet, "/reviews", query, nil, &page)
	return page, err
}

// Get fetches a single live review.
func (c *Client) Get(ctx context.Context, id string) (core.Review, error) {
	var r core.Review
	err := c.do(ctx, http.MethodGet, "/reviews/"+id, nil, nil, &r)
	return r, err
}

// Create adds a new review.
func (c *Client) Create(ctx context.Context, title, content string) (core.Review, error) {
	var r core.Review
	err := c.do(ctx, http.MethodPost, "/reviews", nil, map[string]string{
		"title":   title,
		"content": content,
	}, &r)
	return r, err
}

// Update applies a partial update. Fields present in the map are sent as
// is; use a nil "deletedAt" to restore.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (core.Review, error) {
	var r core.Review
	err := c.do(ctx, http.MethodPut, "/reviews/"+id, nil, fields, &r)
	return r, err
}

// Delete soft-deletes a review.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/reviews/"+id, nil, nil, nil)
}

// Restore clears DeletedAt, the undo path for Delete.
func (c *Client) Restore(ctx context.Context, id string) error {
	_, err := c.Update(ctx, id, map[string]any{"deletedAt": nil})
	return err
}
