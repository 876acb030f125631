package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const (
	uploadNote  = "Upload Stok Awal"
	uploadActor = "System"
)

// ReconcileResult counts what a bulk upload did to the Stock table.
type ReconcileResult struct {
	Inserted int
	Updated  int
}

type uploadColumns struct {
	code, name, balance int
}

// Reconcile merges an uploaded initial-stock table into Stock.
//
// Known codes get their balance overwritten (the stored name is kept); unknown codes are
// inserted. Every processed row appends one initial-stock ledger entry, all stamped with the
// same batch timestamp. Any bad row aborts the whole batch before anything is written.
func (s *Service) Reconcile(ctx context.Context, table models.UploadTable) (ReconcileResult, error) {
	cols, err := resolveColumns(table.Header)
	if err != nil {
		return ReconcileResult{}, err
	}

	batchTime := models.FormatTimestamp(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.ListStock(ctx)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("load stock: %w", err)
	}

	known := make(map[string]models.StockItem, len(items))
	for _, item := range items {
		known[item.Code] = item
	}

	var (
		result  ReconcileResult
		changed = make(map[string]models.StockItem)
		order   []string
		entries []models.LedgerEntry
	)

	for i, row := range table.Rows {
		rowNumber := i + 2

		code := cell(row, cols.code)
		name := cell(row, cols.name)
		rawBalance := cell(row, cols.balance)
		if code == "" && name == "" && rawBalance == "" {
			continue
		}
		if code == "" {
			return ReconcileResult{}, fmt.Errorf("%w: row %d has no %s", models.ErrValidation, rowNumber, models.ColumnCode)
		}

		balance, err := parseBalance(rawBalance)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("row %d: %w", rowNumber, err)
		}

		item, exists := known[code]
		if exists {
			item.Balance = balance
			result.Updated++
		} else {
			item = models.StockItem{Code: code, Name: name, Balance: balance}
			result.Inserted++
		}
		known[code] = item

		if _, seen := changed[code]; !seen {
			order = append(order, code)
		}
		changed[code] = item

		entries = append(entries, models.LedgerEntry{
			Timestamp: batchTime,
			Code:      code,
			Name:      item.Name,
			Kind:      models.KindInitial,
			Quantity:  balance,
			Note:      uploadNote,
			Actor:     uploadActor,
		})
	}

	upserts := make([]models.StockItem, 0, len(order))
	for _, code := range order {
		upserts = append(upserts, changed[code])
	}

	if err := s.repo.UpsertStock(ctx, upserts...); err != nil {
		return ReconcileResult{}, fmt.Errorf("save stock: %w", err)
	}
	if err := s.repo.AppendLedger(ctx, entries...); err != nil {
		return ReconcileResult{}, fmt.Errorf("save ledger: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Uploads.WithLabelValues("inserted").Add(float64(result.Inserted))
		s.metrics.Uploads.WithLabelValues("updated").Add(float64(result.Updated))
	}

	s.logger.Info("initial stock reconciled",
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.String("batch_time", batchTime))

	return result, nil
}

// resolveColumns locates the required columns. The stock export's Saldo column stands in for
// Saldo Awal so an exported stock file can be uploaded back.
func resolveColumns(header []string) (uploadColumns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	cols := uploadColumns{code: -1, name: -1, balance: -1}
	if i, ok := index[models.ColumnCode]; ok {
		cols.code = i
	}
	if i, ok := index[models.ColumnName]; ok {
		cols.name = i
	}
	if i, ok := index[models.ColumnInitial]; ok {
		cols.balance = i
	} else if i, ok := index[models.ColumnBalance]; ok {
		cols.balance = i
	}

	var missing []string
	if cols.code < 0 {
		missing = append(missing, models.ColumnCode)
	}
	if cols.name < 0 {
		missing = append(missing, models.ColumnName)
	}
	if cols.balance < 0 {
		missing = append(missing, models.ColumnInitial)
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s (expected %s, %s, %s)", models.ErrSchema,
			strings.Join(missing, ", "), models.ColumnCode, models.ColumnName, models.ColumnInitial)
	}

	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseBalance(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("%w: empty %s", models.ErrFormat, models.ColumnInitial)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", models.ErrFormat, models.ColumnInitial, value)
	}
	return d, nil
}
