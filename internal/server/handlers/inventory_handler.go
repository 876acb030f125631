package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/inventory"
	"github.com/mamadbah2/stockledger/internal/spreadsheet"
)

// InventoryHandler exposes stock listing, lookups, movements, registration and uploads.
type InventoryHandler struct {
	svc    *inventory.Service
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc *inventory.Service, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

type itemResponse struct {
	Code    string  `json:"kode"`
	Name    string  `json:"nama"`
	Balance float64 `json:"saldo"`
}

// quantityField accepts jumlah as a JSON number, a string or null. The text is parsed by the
// inventory service, where an empty value counts as zero.
type quantityField string

func (q *quantityField) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*q = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantityField(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*q = quantityField(n)
	}
	return nil
}

type mutationRequest struct {
	Code     string        `json:"kode" form:"kode"`
	Kind     string        `json:"jenis" form:"jenis"`
	Quantity quantityField `json:"jumlah" form:"jumlah"`
	Note     string        `json:"keterangan" form:"keterangan"`
	Actor    string        `json:"nama_input" form:"nama_input"`
}

type addItemRequest struct {
	Code string `json:"kode_barang" form:"kode_barang"`
	Name string `json:"nama_barang" form:"nama_barang"`
}

// ListItems returns every stock row.
func (h *InventoryHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListStock(c.Request.Context())
	if err != nil {
		h.fail(c, "list items", err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(items, func(item models.StockItem, _ int) itemResponse {
		return itemResponse{Code: item.Code, Name: item.Name, Balance: item.Balance.InexactFloat64()}
	}))
}

// GetBalance looks up a balance by code or name fragment.
func (h *InventoryHandler) GetBalance(c *gin.Context) {
	balance, found, err := h.svc.LookupBalance(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, "lookup balance", err)
		return
	}

	if !found {
		c.JSON(http.StatusOK, gin.H{"saldo": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saldo": balance.InexactFloat64()})
}

// AddMutation records an incoming or outgoing movement.
func (h *InventoryHandler) AddMutation(c *gin.Context) {
	var req mutationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidPayload(c, "add mutation", err)
		return
	}

	err := h.svc.ApplyMutation(c.Request.Context(), inventory.MutationRequest{
		Code:     req.Code,
		Kind:     req.Kind,
		Quantity: string(req.Quantity),
		Note:     req.Note,
		Actor:    req.Actor,
	})
	if err != nil {
		h.fail(c, "add mutation", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AddItem registers a new item.
func (h *InventoryHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidPayload(c, "add item", err)
		return
	}

	if err := h.svc.AddItem(c.Request.Context(), req.Code, req.Name); err != nil {
		h.fail(c, "add item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UploadInitialStock reconciles an uploaded initial-stock workbook into Stock.
func (h *InventoryHandler) UploadInitialStock(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, "upload initial stock", fmt.Errorf("%w: no file uploaded", models.ErrValidation))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, "upload initial stock", fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	table, err := spreadsheet.ParseUpload(file)
	if err != nil {
		h.fail(c, "upload initial stock", err)
		return
	}

	result, err := h.svc.Reconcile(c.Request.Context(), table)
	if err != nil {
		h.fail(c, "upload initial stock", err)
		return
	}

	h.logger.Info("initial stock uploaded",
		zap.String("filename", header.Filename),
		zap.Int("rows", len(table.Rows)))

	c.JSON(http.StatusOK, gin.H{"ok": true, "inserted": result.Inserted, "updated": result.Updated})
}

func (h *InventoryHandler) fail(c *gin.Context, op string, err error) {
	respondError(c, h.logger, op, err)
}

// invalidPayload keeps decoder details in the log only.
func (h *InventoryHandler) invalidPayload(c *gin.Context, op string, err error) {
	h.logger.Debug(op+" payload not bound", zap.Error(err))
	h.fail(c, op, fmt.Errorf("%w: invalid payload", models.ErrValidation))
}
