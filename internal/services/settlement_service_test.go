package services

import (
	"context"
	"testing"

	"github.com/settleops/tradeflow/internal/models"
	"github.com/shopspring/decimal"
)

func TestNormalizeFeedTicker(t *testing.T) {
	cases := []struct{ in, want string }{
		{"lmcads03 Comdty", "LMCADS03 Comdty"},
		{"lmahds 1w Comdty", "LMAHDS 1W Comdty"},
		{"USDJPY", "USDJPY"}, // single token untouched
	}
	for _, tc := range cases {
		if got := NormalizeFeedTicker(tc.in); got != tc.want {
			t.Errorf("NormalizeFeedTicker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSettlementImportForDate(t *testing.T) {
	date := mustDate("2025-05-15")
	store := &fakeSettlementStore{
		tickers: []models.SettlementTicker{
			{SecurityCode: "CU", BloombergCode: "lmcads03 Comdty", Field: "PX_SETTLE", Date: date},
			{SecurityCode: "AL", BloombergCode: "lmahds03 Comdty", Field: "PX_SETTLE", Date: date},
			{SecurityCode: "FX1", BloombergCode: "USDJPY", Field: "PX_SETTLE", Date: date}, // FX, skipped
			{SecurityCode: "ZZ", BloombergCode: "lmzzds03 Comdty", Field: "PX_SETTLE", Date: date},
		},
		lines: []string{"imported 2 prices"},
	}
	feed := &fakeFeed{prices: map[string]decimal.Decimal{
		"LMCADS03 Comdty": dec("9555.25"),
		"LMAHDS03 Comdty": dec("2301"),
	}}

	svc := NewSettlementService(store, feed)
	lines, loaded, err := svc.ImportForDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ImportForDate: %v", err)
	}

	if loaded != 2 {
		t.Errorf("loaded = %d, want 2 (FX skipped, one ticker unpriced)", loaded)
	}
	if len(store.loaded) != 2 {
		t.Fatalf("store got %d rows", len(store.loaded))
	}
	byCode := make(map[string]models.SettlementPrice)
	for _, p := range store.loaded {
		byCode[p.SecurityCode] = p
	}
	if byCode["CU"].Price.String() != "9555.25" {
		t.Errorf("CU price = %s", byCode["CU"].Price)
	}
	if _, ok := byCode["FX1"]; ok {
		t.Error("single-token FX ticker must be skipped")
	}
	if _, ok := byCode["ZZ"]; ok {
		t.Error("unpriced ticker must not be loaded")
	}

	if len(lines) != 1 || lines[0] != "imported 2 prices" {
		t.Errorf("lines = %v", lines)
	}
	if !store.date.Equal(date) {
		t.Errorf("import date = %v", store.date)
	}
}

func TestSettlementImportDeduplicates(t *testing.T) {
	date := mustDate("2025-05-15")
	store := &fakeSettlementStore{
		tickers: []models.SettlementTicker{
			{SecurityCode: "CU", BloombergCode: "LMCADS03 Comdty", Field: "PX_SETTLE", Date: date},
			{SecurityCode: "CU", BloombergCode: "LMCADS03 Comdty", Field: "PX_SETTLE", Date: date},
		},
	}
	feed := &fakeFeed{prices: map[string]decimal.Decimal{
		"LMCADS03 Comdty": dec("9555.25"),
	}}

	svc := NewSettlementService(store, feed)
	_, loaded, err := svc.ImportForDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ImportForDate: %v", err)
	}
	if loaded != 1 {
		t.Errorf("loaded = %d, want deduplicated 1", loaded)
	}
}
