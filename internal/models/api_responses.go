package models

// ErrorResponse is the standard JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadTradesResponse is returned by POST /trades/upload on success
type UploadTradesResponse struct {
	Lines  []string  `json:"lines"`
	Report RunReport `json:"report"`
}

// DateDiagnosticsResponse is returned when the uploaded file fails the
// date-validation gate. It is a report, not a server error: the caller shows
// the offending cells to the user.
type DateDiagnosticsResponse struct {
	Error string        `json:"error"`
	Lines []string      `json:"lines"`
	Cells []BadDateCell `json:"cells"`
}

// ImportSettlementPricesRequest binds the settlement-price import parameters
type ImportSettlementPricesRequest struct {
	Date string `form:"date" binding:"required"`
}

// ImportSettlementPricesResponse is returned by POST /settlement-prices/import
type ImportSettlementPricesResponse struct {
	Date   string   `json:"date"`
	Loaded int      `json:"loaded"`
	Lines  []string `json:"lines"`
}
