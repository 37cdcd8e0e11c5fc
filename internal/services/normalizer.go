package services

import (
	"strings"

	"github.com/settleops/tradeflow/config"
	"github.com/settleops/tradeflow/internal/models"
	"github.com/settleops/tradeflow/internal/util"
	"github.com/shopspring/decimal"
)

// NormalizeOptions are the deployment-time schema choices: how the delivery
// month is rendered and whether the legacy per-side rate split applies.
type NormalizeOptions struct {
	DelMonthStyle   config.DelMonthStyle
	LegacyRateSplit bool
}

// NormalizeTrades projects resolved trades into the staging table schema.
// Pure and deterministic: no I/O, same input gives byte-identical output.
//
// Commission has already served its role in the carry adjustment by the time
// rows arrive here, so it is zeroed in the output; do not reorder that with
// the backfill. Rows still lacking a price are filtered first, then the
// projected set is deduplicated to undo the resolver's identifier fan-out.
func NormalizeTrades(rows []models.ResolvedTrade, opts NormalizeOptions) []models.StagingTrade {
	out := make([]models.StagingTrade, 0, len(rows))
	seen := make(map[string]bool)

	for _, r := range rows {
		if !r.TradedPrice.Valid {
			continue
		}
		price := r.TradedPrice.Decimal

		optType := ""
		if r.ComType != models.InstrumentFuture {
			optType = r.CallPut
		}

		buyRate, sellRate := price.String(), price.String()
		if opts.LegacyRateSplit {
			buyRate, sellRate = legacyRates(r, price.String())
		}

		delMonth := util.FormatISODate(r.DeliveryMonth)
		if opts.DelMonthStyle == config.DelMonthAbbrev {
			delMonth = util.FormatMonthYY(r.DeliveryMonth)
		}

		s := models.StagingTrade{
			ClientCode:   r.ClientCode,
			CurrencyCode: r.CurrCode,
			Ticker:       r.ComCode,
			CmdType:      string(r.ComType),
			OptType:      optType,
			TradeDate:    util.FormatISODate(r.TradeDate),
			ExpiryDate:   util.FormatISODate(r.ContractMonth),
			BuySellFlag:  string(r.BuySell),
			Qty:          r.TradedQty,
			CurrPrice:    price,
			BuyRate:      buyRate,
			SellRate:     sellRate,
			Margin:       "0.00",
			MCPCode:      r.MCP,
			Commission:   decimal.Zero,
			Fees:         "0.00",
			BuyDealID:    r.OrderID,
			SellDealID:   r.OrderID,
			TickValue:    r.TickValue,
			TickSize:     1,
			MarketCode:   r.ExchCode,
			DelMonth:     delMonth,
			TradeID:      r.OrderID,
			StrikePrice:  r.StrikePrice,
			TradeTime:    r.TradeTime,
			TradeSource:  r.TradeSource,
		}

		key := stagingKey(&s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}

	return out
}

// legacyRates implements the oldest file variant: the side the trade was done
// on gets the price (futures and options only, 0 otherwise) and the other
// side has no value, rendered as the "0.00" placeholder at projection time.
func legacyRates(r models.ResolvedTrade, price string) (buyRate, sellRate string) {
	buyRate, sellRate = "0.00", "0.00"
	rate := "0"
	if r.ComType == models.InstrumentFuture || r.ComType == models.InstrumentOption {
		rate = price
	}
	switch r.BuySell {
	case models.SideBuy:
		buyRate = rate
	case models.SideSell:
		sellRate = rate
	}
	return buyRate, sellRate
}

func stagingKey(s *models.StagingTrade) string {
	tick := ""
	if s.TickValue.Valid {
		tick = s.TickValue.Decimal.String()
	}
	strike := ""
	if s.StrikePrice.Valid {
		strike = s.StrikePrice.Decimal.String()
	}
	return strings.Join([]string{
		s.ClientCode, s.CurrencyCode, s.Ticker, s.CmdType, s.OptType,
		s.TradeDate, s.ExpiryDate, s.BuySellFlag, s.Qty.String(),
		s.CurrPrice.String(), s.BuyRate, s.SellRate, s.Margin, s.MCPCode,
		s.Commission.String(), s.Fees, s.BuyDealID, s.SellDealID, tick,
		s.MarketCode, s.DelMonth, s.TradeID, strike, s.TradeTime,
		s.TradeSource,
	}, "\x1f")
}
