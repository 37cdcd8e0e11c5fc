package services

import (
	"context"
	"fmt"
	"time"

	"github.com/settleops/tradeflow/internal/cache"
	"github.com/settleops/tradeflow/internal/models"
	"github.com/settleops/tradeflow/internal/util"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// SettleTicker builds the feed ticker for a trade's settle-price lookup:
// LM<code>P <YYYYMMDD> LME Comdty
func SettleTicker(code string, contractMonth time.Time) string {
	return fmt.Sprintf("LM%sP %s LME Comdty", code, util.FormatCompactDate(contractMonth))
}

// BackfillResult summarizes a backfill pass. Rows whose price the feed could
// not supply are excluded from Kept and accounted for here.
type BackfillResult struct {
	Kept           []models.ResolvedTrade
	Backfilled     int
	Missing        int
	DroppedTickers []string
}

// BackfillPrices fills in prices for trades whose traded price is null,
// batching one feed lookup for all of them. The filled price carries the
// carry adjustment: settle plus commission on the buy side, settle minus
// commission on the sell side.
//
// When no row needs a price the feed is not called at all; that is part of
// the feed contract, not an optimization.
func BackfillPrices(ctx context.Context, feed PriceLookup, priceCache *cache.MemoryCache, rows []models.ResolvedTrade) (*BackfillResult, error) {
	tickers := make(map[int]string) // row index -> ticker
	cached := make(map[string]decimal.Decimal)
	var toFetch []string
	seen := make(map[string]bool)

	for i, r := range rows {
		if r.TradedPrice.Valid {
			continue
		}
		ticker := SettleTicker(r.ComCode, r.ContractMonth)
		tickers[i] = ticker
		if priceCache != nil {
			if v, ok := priceCache.GetPrice(ticker); ok {
				cached[ticker] = v
				continue
			}
		}
		if !seen[ticker] {
			seen[ticker] = true
			toFetch = append(toFetch, ticker)
		}
	}

	fetched := map[string]decimal.Decimal{}
	if len(toFetch) > 0 {
		var err error
		fetched, err = feed.LookupSettlePrices(ctx, toFetch)
		if err != nil {
			return nil, fmt.Errorf("failed to look up settle prices: %w", err)
		}
		if priceCache != nil {
			for ticker, v := range fetched {
				priceCache.SetPrice(ticker, v)
			}
		}
	}

	result := &BackfillResult{}
	droppedSeen := make(map[string]bool)
	for i, r := range rows {
		ticker, needs := tickers[i]
		if !needs {
			result.Kept = append(result.Kept, r)
			continue
		}

		settle, ok := cached[ticker]
		if !ok {
			settle, ok = fetched[ticker]
		}
		if !ok {
			result.Missing++
			if !droppedSeen[ticker] {
				droppedSeen[ticker] = true
				result.DroppedTickers = append(result.DroppedTickers, ticker)
			}
			log.WithFields(log.Fields{"ticker": ticker, "order_id": r.OrderID}).
				Warn("no settle price from feed, dropping row")
			continue
		}

		price := settle
		switch r.BuySell {
		case models.SideBuy:
			price = settle.Add(r.Comm)
		case models.SideSell:
			price = settle.Sub(r.Comm)
		}
		r.TradedPrice = decimal.NewNullDecimal(price)
		result.Backfilled++
		result.Kept = append(result.Kept, r)
	}

	return result, nil
}
