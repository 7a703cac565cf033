// Package engine is the REST client for the remote order-matching engine.
// The engine exposes a small unauthenticated HTTP surface: POST /order,
// POST /clear, GET /orderbook, GET /trades, GET /stats. Its matching logic
// is entirely out of scope here; this client only moves payloads.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matchdash-io/matchdash/internal/domain"
)

// Client talks to one matching-engine instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an engine client. baseURL is the engine root, e.g.
// "http://127.0.0.1:3030". A non-positive timeout disables the client-side
// request timeout, leaving a hung request to race the next poll cycle.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// PostOrder submits one order. The engine's response body is ignored on
// success; on a non-2xx status the body text is surfaced in the error.
func (c *Client) PostOrder(ctx context.Context, req domain.OrderRequest) error {
	if _, err := c.do(ctx, http.MethodPost, "/order", req); err != nil {
		return fmt.Errorf("engine: post order: %w", err)
	}
	return nil
}

// Clear wipes the engine's order book and trade history.
func (c *Client) Clear(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, "/clear", nil); err != nil {
		return fmt.Errorf("engine: clear: %w", err)
	}
	return nil
}

// OrderBook fetches the raw order-book snapshot body. The shape is not
// trusted here; normalization happens in the book package.
func (c *Client) OrderBook(ctx context.Context) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, "/orderbook", nil)
	if err != nil {
		return nil, fmt.Errorf("engine: get orderbook: %w", err)
	}
	return body, nil
}

// Trades fetches the full trade list, oldest first.
func (c *Client) Trades(ctx context.Context) ([]domain.Trade, error) {
	body, err := c.do(ctx, http.MethodGet, "/trades", nil)
	if err != nil {
		return nil, fmt.Errorf("engine: get trades: %w", err)
	}
	var trades []domain.Trade
	if err := json.Unmarshal(body, &trades); err != nil {
		return nil, fmt.Errorf("engine: decode trades: %w", err)
	}
	return trades, nil
}

// Stats fetches the engine's open label-to-value statistics mapping.
func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	body, err := c.do(ctx, http.MethodGet, "/stats", nil)
	if err != nil {
		return nil, fmt.Errorf("engine: get stats: %w", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("engine: decode stats: %w", err)
	}
	return stats, nil
}

// do builds, sends, and reads one HTTP request and returns the raw body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// checkHTTPStatus maps non-2xx statuses to an error carrying the body text,
// so refresh cycles and the submission gate can surface the engine's reason.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return fmt.Errorf("%w: HTTP %d: %s", domain.ErrEngineRejected, statusCode, string(body))
}
