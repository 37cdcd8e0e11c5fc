package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLookupFieldPricesEmptyBatchSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	prices, err := client.LookupSettlePrices(context.Background(), nil)
	if err != nil {
		t.Fatalf("LookupSettlePrices: %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("prices = %v, want empty", prices)
	}
	if hits.Load() != 0 {
		t.Errorf("gateway contacted %d times for an empty batch", hits.Load())
	}
}

func TestLookupFieldPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ref" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req refRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Field != FieldSettle {
			t.Errorf("field = %q", req.Field)
		}
		if len(req.Tickers) != 2 {
			t.Errorf("tickers = %v", req.Tickers)
		}
		json.NewEncoder(w).Encode(refResponse{Prices: []refPrice{
			{Ticker: "LMCAP 20250601 LME Comdty", Value: 9555.25},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	prices, err := client.LookupSettlePrices(context.Background(),
		[]string{"LMCAP 20250601 LME Comdty", "LMZZP 20250601 LME Comdty"})
	if err != nil {
		t.Fatalf("LookupSettlePrices: %v", err)
	}

	got, ok := prices["LMCAP 20250601 LME Comdty"]
	if !ok || got.String() != "9555.25" {
		t.Errorf("price = %s, ok = %v", got, ok)
	}
	// The unpriced ticker is an absence, not an error.
	if _, ok := prices["LMZZP 20250601 LME Comdty"]; ok {
		t.Error("unpriced ticker should be absent from the result")
	}
}

func TestLookupFieldPricesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.LookupSettlePrices(context.Background(), []string{"LMCAP 20250601 LME Comdty"})
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Errorf("err = %v, want ErrFeedUnavailable", err)
	}
}

func TestLookupFieldPricesConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening

	client := NewClient(server.URL, time.Second)
	_, err := client.LookupSettlePrices(context.Background(), []string{"LMCAP 20250601 LME Comdty"})
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Errorf("err = %v, want ErrFeedUnavailable", err)
	}
}
