package services

import (
	"context"
	"time"

	"github.com/settleops/tradeflow/internal/models"
	"github.com/shopspring/decimal"
)

// ReferenceReader is the read port for the two master-table snapshots.
// Narrow on purpose: tests substitute fixed fixtures without a database.
type ReferenceReader interface {
	FetchSecurityReferences(ctx context.Context) ([]models.SecurityReference, error)
	FetchClientReferences(ctx context.Context) ([]models.ClientReference, error)
}

// PriceLookup is the settle-price feed boundary. An empty ticker set must
// return an empty map without a network call.
type PriceLookup interface {
	LookupSettlePrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
	LookupFieldPrices(ctx context.Context, tickers []string, field string) (map[string]decimal.Decimal, error)
}

// TradePoster is the staging-sink boundary: truncate, bulk insert, invoke the
// posting procedure, return its lines. The procedure itself is a black box.
type TradePoster interface {
	LoadAndPost(ctx context.Context, trades []models.StagingTrade, partner string) ([]string, error)
}

// SettlementStore is the settlement-price staging boundary.
type SettlementStore interface {
	FetchTickers(ctx context.Context, date time.Time) ([]models.SettlementTicker, error)
	LoadAndImport(ctx context.Context, prices []models.SettlementPrice, date time.Time) ([]string, error)
}
