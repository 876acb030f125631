package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/service/export"
	"github.com/mamadbah2/stockledger/internal/spreadsheet"
)

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	svc    *export.Service
	logger *zap.Logger
}

// NewExportHandler constructs the download handler.
func NewExportHandler(svc *export.Service, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{svc: svc, logger: logger}
}

// Stock downloads the current Stock table.
func (h *ExportHandler) Stock(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Stock(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, "export stock", err)
		return
	}
	attachment(c, export.StockFileName, buf.Bytes())
}

// Ledger downloads the whole Ledger.
func (h *ExportHandler) Ledger(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Ledger(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, "export ledger", err)
		return
	}
	attachment(c, export.LedgerFileName, buf.Bytes())
}

// Period downloads the ledger entries between start_date and end_date.
func (h *ExportHandler) Period(c *gin.Context) {
	start := c.PostForm("start_date")
	end := c.PostForm("end_date")

	// Buffered so a failure half way never produces a partial download.
	var buf bytes.Buffer
	if err := h.svc.Period(c.Request.Context(), &buf, start, end); err != nil {
		respondError(c, h.logger, "export period", err)
		return
	}
	attachment(c, export.PeriodFileName(start, end), buf.Bytes())
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, data)
}
