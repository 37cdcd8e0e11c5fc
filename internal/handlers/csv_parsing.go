package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/settleops/tradeflow/internal/models"
	"github.com/settleops/tradeflow/internal/util"
	"github.com/shopspring/decimal"
)

// Broker confirmation files have a fixed positional layout. The header row is
// present but its names are not trusted; positions are.
const (
	colClientInfo = iota
	colComType
	colExchCode
	colComCode
	colContractMonth
	colStrikePrice
	colCallPut
	colTradeDate
	colBuySell
	colTradedQty
	colTradedPrice
	colCurrCode
	colOrderID
	colTradeSource
	colMCP
	colComm
	colRemarks
	colDeliveryMonth
	colTradeTime

	tradeColumnCount
)

// dateColumns maps the date-bearing positions to the column names used in
// diagnostics.
var dateColumns = map[int]string{
	colContractMonth: "Contract_Month",
	colTradeDate:     "Trade_Date",
	colDeliveryMonth: "Delivery_Month",
}

// ParseTradesCSV parses a broker trade-confirmation file into TradeRows.
//
// Rows with an empty client identifier are dropped silently (a pre-filter,
// not an error). Date cells are validated all-or-nothing: if any cell in a
// date column fails the shape check or the calendar parse, the whole file is
// rejected with a *models.DateValidationError listing every offending cell.
// No partial processing of a file with a malformed date.
func ParseTradesCSV(r io.Reader) ([]models.TradeRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Keep only data rows that carry a client identifier. Line numbers are
	// tracked against the original file for diagnostics.
	type rawRow struct {
		line   int
		record []string
	}
	var raws []rawRow
	for i, record := range records {
		if i == 0 {
			continue // header row, positions only
		}
		if len(record) < tradeColumnCount {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, tradeColumnCount, len(record))
		}
		if util.StripAllWhitespace(record[colClientInfo]) == "" {
			continue
		}
		raws = append(raws, rawRow{line: i + 1, record: record})
	}

	// Strict date gate over the full file before any row is built.
	var badCells []models.BadDateCell
	dates := make(map[int]map[int]time.Time, len(raws)) // line -> column -> parsed
	for _, rr := range raws {
		for col, name := range dateColumns {
			cell := strings.TrimSpace(rr.record[col])
			if !util.MatchesDateShape(cell) {
				badCells = append(badCells, models.BadDateCell{Row: rr.line, Column: name, Value: cell})
				continue
			}
			t, err := util.ParseFlexibleDate(cell)
			if err != nil {
				badCells = append(badCells, models.BadDateCell{Row: rr.line, Column: name, Value: cell})
				continue
			}
			if dates[rr.line] == nil {
				dates[rr.line] = make(map[int]time.Time, len(dateColumns))
			}
			dates[rr.line][col] = t
		}
	}
	if len(badCells) > 0 {
		return nil, &models.DateValidationError{Cells: badCells}
	}

	var rows []models.TradeRow
	for _, rr := range raws {
		record := rr.record

		qty, err := parseDecimal(record[colTradedQty], rr.line, "Traded_Qty")
		if err != nil {
			return nil, err
		}
		comm, err := parseDecimal(record[colComm], rr.line, "Comm")
		if err != nil {
			return nil, err
		}
		price, err := parseNullDecimal(record[colTradedPrice], rr.line, "Traded_Price")
		if err != nil {
			return nil, err
		}
		strike, err := parseNullDecimal(record[colStrikePrice], rr.line, "Strike_Price")
		if err != nil {
			return nil, err
		}

		rows = append(rows, models.TradeRow{
			Line:          rr.line,
			ClientInfo:    util.StripAllWhitespace(record[colClientInfo]),
			ComType:       models.InstrumentType(strings.TrimSpace(record[colComType])),
			ExchCode:      strings.TrimSpace(record[colExchCode]),
			ComCode:       strings.TrimSpace(record[colComCode]),
			ContractMonth: dates[rr.line][colContractMonth],
			StrikePrice:   strike,
			CallPut:       strings.TrimSpace(record[colCallPut]),
			TradeDate:     dates[rr.line][colTradeDate],
			BuySell:       models.Side(strings.TrimSpace(record[colBuySell])),
			TradedQty:     qty,
			TradedPrice:   price,
			CurrCode:      strings.TrimSpace(record[colCurrCode]),
			OrderID:       strings.TrimSpace(record[colOrderID]),
			TradeSource:   strings.TrimSpace(record[colTradeSource]),
			MCP:           strings.TrimSpace(record[colMCP]),
			Comm:          comm,
			Remarks:       strings.TrimSpace(record[colRemarks]),
			DeliveryMonth: dates[rr.line][colDeliveryMonth],
			TradeTime:     strings.TrimSpace(record[colTradeTime]),
		})
	}

	return rows, nil
}

// parseDecimal parses a required numeric column; an empty cell is zero.
func parseDecimal(cell string, line int, column string) (decimal.Decimal, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Zero, fmt.Errorf("row %d: invalid %s %q", line, column, cell)
	}
	return d, nil
}

// parseNullDecimal parses a nullable numeric column. Absence is the null
// sentinel ("not yet known"); an explicit 0 is a real zero, not missing.
func parseNullDecimal(cell string, line int, column string) (decimal.NullDecimal, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("row %d: invalid %s %q", line, column, cell)
	}
	return decimal.NewNullDecimal(d), nil
}
