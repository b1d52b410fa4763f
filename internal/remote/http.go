package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/materna-health/materna/internal/models"
)

// HTTPClient implements Client over a PostgREST-style HTTP API: one resource
// per table, filters as `column=eq.value` query params, upserts via POST with
// a merge-duplicates preference.
type HTTPClient struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

type HTTPClientOption func(*HTTPClient)

func WithHTTPTimeout(d time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

func NewHTTPClient(baseURL string, apiToken string, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return classify(resp.StatusCode)
}

func (c *HTTPClient) Upsert(ctx context.Context, table models.Table, payload json.RawMessage) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if err := classify(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: %s", err, firstLine(body))
	}

	// return=representation yields a one-element array
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err == nil && len(rows) > 0 {
		return rows[0], nil
	}
	return body, nil
}

func (c *HTTPClient) Delete(ctx context.Context, table models.Table, remoteID string) error {
	return c.deleteWhere(ctx, table, "id", remoteID)
}

func (c *HTTPClient) DeleteByLocalID(ctx context.Context, table models.Table, localID string) error {
	return c.deleteWhere(ctx, table, "local_id", localID)
}

func (c *HTTPClient) deleteWhere(ctx context.Context, table models.Table, column, value string) error {
	u := c.tableURL(table) + "?" + column + "=eq." + url.QueryEscape(value)
	req, err := c.newRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	// deleting an already-absent row is success
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return classify(resp.StatusCode)
}

func (c *HTTPClient) List(ctx context.Context, table models.Table, filter Filter) ([]json.RawMessage, error) {
	q := url.Values{}
	if filter.ProfileID != "" {
		q.Set("profile_id", "eq."+filter.ProfileID)
	}
	if filter.FacilityID != "" {
		q.Set("facility_id", "eq."+filter.FacilityID)
	}
	if filter.UnitID != "" {
		q.Set("unit_id", "eq."+filter.UnitID)
	}
	u := c.tableURL(table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if err := classify(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("%w: %s", err, firstLine(body))
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrRejected, err)
	}
	return rows, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	return req, nil
}

func (c *HTTPClient) tableURL(table models.Table) string {
	return c.baseURL + "/" + string(table)
}

func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, status)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: status %d", ErrRejected, status)
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
}

func firstLine(body []byte) string {
	const max = 200
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[:i]
	}
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
