package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/settleops/tradeflow/internal/models"
	"github.com/settleops/tradeflow/internal/pricefeed"
)

// TradeImporter runs the reconciliation pipeline over parsed trade rows.
type TradeImporter interface {
	Run(ctx context.Context, trades []models.TradeRow) (*models.PipelineResult, error)
}

// SettlementImporter imports settlement prices for a date.
type SettlementImporter interface {
	ImportForDate(ctx context.Context, date time.Time) ([]string, int, error)
}

// ImportHandler handles the trade upload and settlement import endpoints
type ImportHandler struct {
	importer   TradeImporter
	settlement SettlementImporter
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importer TradeImporter, settlement SettlementImporter) *ImportHandler {
	return &ImportHandler{importer: importer, settlement: settlement}
}

// UploadTrades handles POST /trades/upload. The broker file arrives as a
// multipart part named "trades". Malformed dates are a 422 report listing
// every offending cell, not a server error.
func (h *ImportHandler) UploadTrades(c *gin.Context) {
	fileHeader, err := c.FormFile("trades")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "multipart file part 'trades' is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "failed to open uploaded file: " + err.Error(),
		})
		return
	}
	defer file.Close()

	trades, err := ParseTradesCSV(file)
	if err != nil {
		var dateErr *models.DateValidationError
		if errors.As(err, &dateErr) {
			c.JSON(http.StatusUnprocessableEntity, models.DateDiagnosticsResponse{
				Error: "invalid_dates",
				Lines: dateErr.Lines(),
				Cells: dateErr.Cells,
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file",
			Message: err.Error(),
		})
		return
	}

	result, err := h.importer.Run(c.Request.Context(), trades)
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal_error"
		if errors.Is(err, pricefeed.ErrFeedUnavailable) {
			status = http.StatusBadGateway
			code = "price_feed_unavailable"
		}
		c.JSON(status, models.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.UploadTradesResponse{
		Lines:  result.Lines,
		Report: result.Report,
	})
}

// ImportSettlementPrices handles POST /settlement-prices/import
func (h *ImportHandler) ImportSettlementPrices(c *gin.Context) {
	var req models.ImportSettlementPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "date must be in YYYY-MM-DD format",
		})
		return
	}

	lines, loaded, err := h.settlement.ImportForDate(c.Request.Context(), date)
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal_error"
		if errors.Is(err, pricefeed.ErrFeedUnavailable) {
			status = http.StatusBadGateway
			code = "price_feed_unavailable"
		}
		c.JSON(status, models.ErrorResponse{
			Error:   code,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.ImportSettlementPricesResponse{
		Date:   req.Date,
		Loaded: loaded,
		Lines:  lines,
	})
}
