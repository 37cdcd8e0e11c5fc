package services

import (
	"context"
	"time"

	"github.com/settleops/tradeflow/internal/models"
	"github.com/settleops/tradeflow/internal/pricefeed"
	"github.com/shopspring/decimal"
)

// fakeFeed is a PriceLookup backed by a fixed ticker->price map. It records
// every call so tests can assert the feed is not touched when nothing needs
// a price.
type fakeFeed struct {
	prices      map[string]decimal.Decimal
	err         error
	calls       int
	lastTickers []string
	lastField   string
}

func (f *fakeFeed) LookupSettlePrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	return f.LookupFieldPrices(ctx, tickers, pricefeed.FieldSettle)
}

func (f *fakeFeed) LookupFieldPrices(ctx context.Context, tickers []string, field string) (map[string]decimal.Decimal, error) {
	f.calls++
	f.lastTickers = tickers
	f.lastField = field
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if v, ok := f.prices[t]; ok {
			out[t] = v
		}
	}
	return out, nil
}

type fakeRefs struct {
	secs    []models.SecurityReference
	clients []models.ClientReference
}

func (f *fakeRefs) FetchSecurityReferences(ctx context.Context) ([]models.SecurityReference, error) {
	return f.secs, nil
}

func (f *fakeRefs) FetchClientReferences(ctx context.Context) ([]models.ClientReference, error) {
	return f.clients, nil
}

// fakePoster captures what would be loaded into the staging table.
type fakePoster struct {
	trades  []models.StagingTrade
	partner string
	lines   []string
	err     error
}

func (f *fakePoster) LoadAndPost(ctx context.Context, trades []models.StagingTrade, partner string) ([]string, error) {
	f.trades = trades
	f.partner = partner
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

type fakeSettlementStore struct {
	tickers []models.SettlementTicker
	loaded  []models.SettlementPrice
	date    time.Time
	lines   []string
}

func (f *fakeSettlementStore) FetchTickers(ctx context.Context, date time.Time) ([]models.SettlementTicker, error) {
	return f.tickers, nil
}

func (f *fakeSettlementStore) LoadAndImport(ctx context.Context, prices []models.SettlementPrice, date time.Time) ([]string, error) {
	f.loaded = prices
	f.date = date
	return f.lines, nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
