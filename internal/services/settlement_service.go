package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/settleops/tradeflow/internal/models"
	log "github.com/sirupsen/logrus"
)

// SettlementService imports end-of-day settlement prices for a date: the
// database names the feed tickers it wants priced, the feed supplies the
// values and the result is loaded back through the settlement staging table.
type SettlementService struct {
	store SettlementStore
	feed  PriceLookup
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(store SettlementStore, feed PriceLookup) *SettlementService {
	return &SettlementService{store: store, feed: feed}
}

// NormalizeFeedTicker upper-cases a feed ticker's instrument part while
// leaving the trailing yellow-key token untouched ("lmcads03 Comdty" →
// "LMCADS03 Comdty").
func NormalizeFeedTicker(code string) string {
	i := strings.LastIndex(code, " ")
	if i < 0 {
		return code
	}
	return strings.ToUpper(code[:i]) + code[i:]
}

// ImportForDate fetches and loads settlement prices for one date, returning
// the import procedure's message lines and the number of prices loaded.
func (s *SettlementService) ImportForDate(ctx context.Context, date time.Time) ([]string, int, error) {
	defer TrackTime("SettlementService.ImportForDate", time.Now())

	tickers, err := s.store.FetchTickers(ctx, date)
	if err != nil {
		return nil, 0, err
	}

	// Single-token codes are FX crosses; their pricing goes through a
	// different route and is skipped here.
	byField := make(map[string][]string)
	var wanted []models.SettlementTicker
	for _, t := range tickers {
		if len(strings.Fields(t.BloombergCode)) < 2 {
			continue
		}
		t.BloombergCode = NormalizeFeedTicker(t.BloombergCode)
		wanted = append(wanted, t)
		byField[t.Field] = append(byField[t.Field], t.BloombergCode)
	}

	prices := make(map[string]map[string]bool) // dedup guard: code -> date keys loaded
	var rows []models.SettlementPrice
	for field, fieldTickers := range byField {
		values, err := s.feed.LookupFieldPrices(ctx, fieldTickers, field)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to look up %s prices: %w", field, err)
		}
		for _, t := range wanted {
			if t.Field != field {
				continue
			}
			v, ok := values[t.BloombergCode]
			if !ok {
				log.WithFields(log.Fields{"ticker": t.BloombergCode, "field": field}).
					Warn("no settlement price from feed")
				continue
			}
			dateKey := t.Date.Format("2006-01-02")
			if prices[t.SecurityCode] == nil {
				prices[t.SecurityCode] = make(map[string]bool)
			}
			if prices[t.SecurityCode][dateKey] {
				continue
			}
			prices[t.SecurityCode][dateKey] = true
			rows = append(rows, models.SettlementPrice{
				SecurityCode: t.SecurityCode,
				Price:        v,
				SDate:        t.Date,
			})
		}
	}

	lines, err := s.store.LoadAndImport(ctx, rows, date)
	if err != nil {
		return nil, 0, err
	}
	return lines, len(rows), nil
}
