package models

import (
	"fmt"

	"github.com/google/uuid"
)

// BadDateCell identifies one unparseable date cell in the input file.
type BadDateCell struct {
	Row    int    `json:"row"`    // 1-based line number in the file
	Column string `json:"column"` // source column name
	Value  string `json:"value"`
}

// DateValidationError reports every date cell that failed validation. The
// whole file is rejected when this is non-empty: no partial processing of a
// file with any malformed date. It is returned as a value so callers can show
// it as a report rather than a crash.
type DateValidationError struct {
	Cells []BadDateCell
}

func (e *DateValidationError) Error() string {
	return fmt.Sprintf("%d date cell(s) failed validation", len(e.Cells))
}

// Lines renders the diagnostic as the pipeline's message lines: one line per
// offending cell plus a trailing hint about the accepted formats.
func (e *DateValidationError) Lines() []string {
	lines := make([]string, 0, len(e.Cells)+1)
	for _, c := range e.Cells {
		lines = append(lines, fmt.Sprintf("row %d, column %s: unparseable date %q", c.Row, c.Column, c.Value))
	}
	lines = append(lines, "accepted date formats: DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY")
	return lines
}

// RunReport is the structured per-run summary. It exists so that excluded
// rows are observable and testable instead of silently dropped.
type RunReport struct {
	RunID          uuid.UUID `json:"run_id"`
	InputRows      int       `json:"input_rows"`
	ResolvedRows   int       `json:"resolved_rows"`
	UnresolvedRows int       `json:"unresolved_rows"`
	UnmatchedCodes []string  `json:"unmatched_codes,omitempty"` // instrument codes needing a master mapping
	BackfilledRows int       `json:"backfilled_rows"`
	MissingPrices  int       `json:"missing_prices"`
	DroppedTickers []string  `json:"dropped_tickers,omitempty"` // tickers the settle feed had no value for
	LoadedRows     int       `json:"loaded_rows"`
}

// PipelineResult is what a pipeline run surfaces to the caller: the ordered
// human-readable message lines (header, posting procedure output, trailing
// skip counts) plus the structured report.
type PipelineResult struct {
	Lines  []string  `json:"lines"`
	Report RunReport `json:"report"`
}
