package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementTicker is one instrument the settlement database wants a price
// for: the canonical security code plus the feed ticker and field to ask for.
type SettlementTicker struct {
	SecurityCode  string
	BloombergCode string
	Field         string
	Date          time.Time
}

// SettlementPrice is one row of the SettlementPriceTemp staging table.
type SettlementPrice struct {
	SecurityCode string
	Price        decimal.Decimal
	SDate        time.Time
}
