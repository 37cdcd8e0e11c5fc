package handlers

import (
	"errors"
	"strings"
	"testing"

	"github.com/settleops/tradeflow/internal/models"
)

const tradesHeader = "Client_info,Com_Type,Exch_code,Com_code,Contract_Month,Strike_Price,Call_Put,Trade_Date,Buy_Sell,Traded_Qty,Traded_Price,Curr_Code,Order_Id,Trade_Source,MCP,Comm,Remarks,Delivery_Month,Trade_Time\n"

func tradeLine(client, comCode, price string) string {
	return client + ",F,LME," + comCode + ",01/06/2025,,,15/05/2025,B,25," + price + ",USD,ORD-1,EBS,MCP1,2,,01/07/2025,10:15:00\n"
}

func TestParseTradesCSVBasic(t *testing.T) {
	input := tradesHeader + tradeLine("CL001", "CU", "123.45")
	rows, err := ParseTradesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTradesCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.ClientInfo != "CL001" {
		t.Errorf("ClientInfo = %q", r.ClientInfo)
	}
	if r.ComType != models.InstrumentFuture {
		t.Errorf("ComType = %q", r.ComType)
	}
	if !r.TradedPrice.Valid || r.TradedPrice.Decimal.String() != "123.45" {
		t.Errorf("TradedPrice = %+v", r.TradedPrice)
	}
	if r.ContractMonth.Format("2006-01-02") != "2025-06-01" {
		t.Errorf("ContractMonth = %v", r.ContractMonth)
	}
	if r.Comm.String() != "2" {
		t.Errorf("Comm = %v", r.Comm)
	}
}

func TestParseTradesCSVDropsEmptyClient(t *testing.T) {
	input := tradesHeader +
		tradeLine("CL001", "CU", "100") +
		tradeLine("  ", "AL", "100") +
		tradeLine("", "ZN", "100")
	rows, err := ParseTradesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTradesCSV: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after client pre-filter, got %d", len(rows))
	}
}

func TestParseTradesCSVStripsClientWhitespace(t *testing.T) {
	input := tradesHeader + tradeLine("CL 00 1", "CU", "100")
	rows, err := ParseTradesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTradesCSV: %v", err)
	}
	if rows[0].ClientInfo != "CL001" {
		t.Errorf("ClientInfo = %q, want all whitespace stripped", rows[0].ClientInfo)
	}
}

func TestParseTradesCSVMissingPriceSentinel(t *testing.T) {
	input := tradesHeader +
		tradeLine("CL001", "CU", "") +
		tradeLine("CL002", "AL", "0")
	rows, err := ParseTradesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTradesCSV: %v", err)
	}
	if rows[0].TradedPrice.Valid {
		t.Error("empty price cell should be the null sentinel")
	}
	if !rows[1].TradedPrice.Valid || !rows[1].TradedPrice.Decimal.IsZero() {
		t.Error("explicit 0 price should be a valid zero, not missing")
	}
}

func TestParseTradesCSVDateGateListsEveryBadCell(t *testing.T) {
	bad := tradesHeader +
		"CL001,F,LME,CU,2025-06-01,,,15/05/2025,B,25,100,USD,O1,S,M,2,,01/07/2025,10:00\n" +
		"CL002,F,LME,AL,01/06/2025,,,31/04/2024,B,25,100,USD,O2,S,M,2,,junk,10:00\n"
	_, err := ParseTradesCSV(strings.NewReader(bad))

	var dateErr *models.DateValidationError
	if !errors.As(err, &dateErr) {
		t.Fatalf("expected DateValidationError, got %v", err)
	}
	if len(dateErr.Cells) != 3 {
		t.Fatalf("expected 3 bad cells, got %d: %+v", len(dateErr.Cells), dateErr.Cells)
	}

	found := make(map[string]bool)
	for _, c := range dateErr.Cells {
		found[c.Column+"/"+c.Value] = true
	}
	for _, want := range []string{
		"Contract_Month/2025-06-01", // wrong shape
		"Trade_Date/31/04/2024",     // right shape, no such calendar date
		"Delivery_Month/junk",
	} {
		if !found[want] {
			t.Errorf("missing diagnostic for %s", want)
		}
	}

	lines := dateErr.Lines()
	if len(lines) != 4 {
		t.Fatalf("expected 3 cell lines plus a hint, got %d", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "DD/MM/YYYY") {
		t.Errorf("expected format hint, got %q", lines[len(lines)-1])
	}
}

func TestParseTradesCSVLeapDay(t *testing.T) {
	input := tradesHeader +
		"CL001,F,LME,CU,29.02.2024,,,29/02/2024,B,25,100,USD,O1,S,M,2,,29-02-2024,10:00\n"
	rows, err := ParseTradesCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("leap day should parse: %v", err)
	}
	if rows[0].ContractMonth.Day() != 29 {
		t.Errorf("ContractMonth = %v", rows[0].ContractMonth)
	}
}

func TestParseTradesCSVShortRow(t *testing.T) {
	input := tradesHeader + "CL001,F,LME\n"
	if _, err := ParseTradesCSV(strings.NewReader(input)); err == nil {
		t.Error("expected error for row with too few columns")
	}
}
