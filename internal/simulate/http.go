package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/gamemash/internal/domain/types"
)

// HTTPClient wraps http.Client with JSON helpers for the gamemash API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a 200 JSON response into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) catalog(ctx context.Context) (catalogResponse, error) {
	var out catalogResponse
	err := c.do(ctx, http.MethodGet, "/catalog", nil, &out)
	return out, err
}

func (c *HTTPClient) reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/reset", nil, nil)
}

func (c *HTTPClient) duel(ctx context.Context, contextCode string) (types.Duel, error) {
	var out types.Duel
	err := c.do(ctx, http.MethodGet, "/duel?context="+url.QueryEscape(contextCode), nil, &out)
	return out, err
}

func (c *HTTPClient) vote(ctx context.Context, v voteRequest) (types.VoteResult, error) {
	var out types.VoteResult
	err := c.do(ctx, http.MethodPost, "/votes", v, &out)
	return out, err
}

func (c *HTTPClient) leaderboard(ctx context.Context, segment, contextCode string, limit int) (leaderboardResponse, error) {
	q := url.Values{}
	q.Set("segment", segment)
	q.Set("context", contextCode)
	q.Set("limit", fmt.Sprint(limit))
	var out leaderboardResponse
	err := c.do(ctx, http.MethodGet, "/leaderboard?"+q.Encode(), nil, &out)
	return out, err
}
