package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentType distinguishes futures from options in the broker file.
type InstrumentType string

const (
	InstrumentFuture InstrumentType = "F"
	InstrumentOption InstrumentType = "O"
)

// Side is the buy/sell flag of a confirmation row.
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "S"
)

// TradeRow is one line of the broker confirmation file after parsing.
// TradedPrice uses decimal.NullDecimal: an empty cell means "price unknown,
// backfill from the settle feed", while an explicit 0 is a real zero price.
// This is the only supported missing-price convention.
type TradeRow struct {
	Line          int // 1-based line number in the source file, for diagnostics
	ClientInfo    string
	ComType       InstrumentType
	ExchCode      string
	ComCode       string
	ContractMonth time.Time
	StrikePrice   decimal.NullDecimal
	CallPut       string
	TradeDate     time.Time
	BuySell       Side
	TradedQty     decimal.Decimal
	TradedPrice   decimal.NullDecimal
	CurrCode      string
	OrderID       string
	TradeSource   string
	MCP           string
	Comm          decimal.Decimal
	Remarks       string
	DeliveryMonth time.Time
	TradeTime     string
}

// ResolvedTrade is a TradeRow joined against the security and client masters.
// A trade whose instrument code matched none of the four identifier columns
// carries Unresolved=true and is excluded from the postable set.
type ResolvedTrade struct {
	TradeRow

	Unresolved   bool
	ClientCode   string
	SecurityCode string
	SecurityName string
	TickValue    decimal.NullDecimal
}

// StagingTrade is the canonical row shape of the CommodityTradesTemp staging
// table. String-typed columns ("0.00" margin, rendered months) are deliberate:
// the downstream posting procedure reads them as text.
type StagingTrade struct {
	ClientCode      string
	CurrencyCode    string
	Ticker          string
	CmdType         string
	OptType         string
	TradeDate       string
	ExpiryDate      string
	BuySellFlag     string
	Qty             decimal.Decimal
	CurrPrice       decimal.Decimal
	BuyRate         string
	SellRate        string
	Margin          string
	MCPCode         string
	Commission      decimal.Decimal
	Fees            string
	BuyDealID       string
	SellDealID      string
	TickValue       decimal.NullDecimal
	TickSize        int
	MarketCode      string
	DelMonth        string
	TradeID         string
	StrikePrice     decimal.NullDecimal
	TradeTime       string
	TradeSource     string
	LastTradingDate *string
}

// StagingColumns is the staging table's column list in insert order.
var StagingColumns = []string{
	"clientcode", "currencycode", "ticker", "cmdtype", "opttype",
	"tradedate", "expirydate", "buysellflag", "qty", "currprice",
	"buyrate", "sellrate", "margin", "mcpcode", "commission", "fees",
	"buydealid", "selldealid", "tickvalue", "ticksize", "marketcode",
	"delmonth", "tradeid", "strikeprice", "tradetime", "tradesource",
	"lasttradingdate",
}

// Values returns the row in StagingColumns order for bulk insertion.
func (s *StagingTrade) Values() []any {
	var tickValue any
	if s.TickValue.Valid {
		tickValue = s.TickValue.Decimal
	}
	var strike any
	if s.StrikePrice.Valid {
		strike = s.StrikePrice.Decimal
	}
	var lastTrading any
	if s.LastTradingDate != nil {
		lastTrading = *s.LastTradingDate
	}
	return []any{
		s.ClientCode, s.CurrencyCode, s.Ticker, s.CmdType, s.OptType,
		s.TradeDate, s.ExpiryDate, s.BuySellFlag, s.Qty, s.CurrPrice,
		s.BuyRate, s.SellRate, s.Margin, s.MCPCode, s.Commission, s.Fees,
		s.BuyDealID, s.SellDealID, tickValue, s.TickSize, s.MarketCode,
		s.DelMonth, s.TradeID, strike, s.TradeTime, s.TradeSource,
		lastTrading,
	}
}
