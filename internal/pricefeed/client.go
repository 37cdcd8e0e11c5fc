package pricefeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// FieldSettle is the last-settle price field used by the trade pipeline.
const FieldSettle = "PX_SETTLE"

// ErrFeedUnavailable marks transport-level failures of the settle-price
// gateway, so callers can distinguish "service down" from "no price for this
// ticker" (the latter is a plain absence in the result map).
var ErrFeedUnavailable = errors.New("price feed unavailable")

// Client is an HTTP client for the settle-price gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a settle-price client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LookupSettlePrices resolves last-settle prices for a batch of tickers.
// An empty ticker set returns an empty map without touching the network;
// callers rely on this as a precondition, some feed backends error on empty
// reference requests.
func (c *Client) LookupSettlePrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return c.LookupFieldPrices(ctx, tickers, FieldSettle)
}

// LookupFieldPrices is the general form: one batched reference request for a
// single feed field.
func (c *Client) LookupFieldPrices(ctx context.Context, tickers []string, field string) (map[string]decimal.Decimal, error) {
	if len(tickers) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	body, err := json.Marshal(refRequest{Tickers: tickers, Field: field})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ref", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var refResp refResponse
	if err := json.Unmarshal(raw, &refResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(refResp.Prices))
	for _, p := range refResp.Prices {
		prices[p.Ticker] = decimal.NewFromFloat(p.Value)
	}
	return prices, nil
}
