package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

const (
	stockRange  = models.SheetStock + "!A:C"
	ledgerRange = models.SheetLedger + "!A:G"
)

// Store is a repository.Store kept in two tabs of one spreadsheet. Stock rows are updated
// in place; ledger rows are only ever appended.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

// NewStore wraps repo and writes the table headers into empty tabs.
func NewStore(ctx context.Context, repo Repository, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{repo: repo, logger: logger}
	if err := s.ensureHeader(ctx, models.SheetStock, models.StockColumns); err != nil {
		return nil, err
	}
	if err := s.ensureHeader(ctx, models.SheetLedger, models.LedgerColumns); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureHeader(ctx context.Context, sheet string, header []string) error {
	rows, err := s.repo.ReadRange(ctx, sheet+"!1:1")
	if err != nil {
		return err
	}
	if len(rows) > 0 && !repository.IsBlank(repository.Strings(rows[0])) {
		return nil
	}

	values := make([]interface{}, len(header))
	for i, h := range header {
		values[i] = h
	}

	s.logger.Info("writing table header", zap.String("sheet", sheet))
	return s.repo.UpdateRange(ctx, sheet+"!A1", [][]interface{}{values})
}

// ListStock reads the stock tab.
func (s *Store) ListStock(ctx context.Context) ([]models.StockItem, error) {
	rows, err := s.repo.ReadRange(ctx, stockRange)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}

	items := make([]models.StockItem, 0, len(rows))
	for _, row := range skipHeader(rows) {
		cells := repository.Strings(row)
		if repository.IsBlank(cells) {
			continue
		}
		item, err := repository.ParseStockRow(cells)
		if err != nil {
			return nil, fmt.Errorf("load stock: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// UpsertStock updates the rows of known codes in place and appends the rest.
func (s *Store) UpsertStock(ctx context.Context, items ...models.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.repo.ReadRange(ctx, stockRange)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}

	// sheet row numbers are 1-based and row 1 is the header.
	existing := make(map[string]int, len(rows))
	for i, row := range skipHeader(rows) {
		cells := repository.Strings(row)
		if len(cells) > 0 && cells[0] != "" {
			existing[cells[0]] = i + 2
		}
	}

	updates := make(map[int]models.StockItem)
	var order []int
	var appended []models.StockItem
	pending := make(map[string]int)

	for _, item := range items {
		if rowNumber, ok := existing[item.Code]; ok {
			if _, seen := updates[rowNumber]; !seen {
				order = append(order, rowNumber)
			}
			updates[rowNumber] = item
			continue
		}
		if i, ok := pending[item.Code]; ok {
			appended[i] = item
			continue
		}
		pending[item.Code] = len(appended)
		appended = append(appended, item)
	}

	for _, rowNumber := range order {
		target := fmt.Sprintf("%s!A%d:C%d", models.SheetStock, rowNumber, rowNumber)
		if err := s.repo.UpdateRange(ctx, target, [][]interface{}{repository.StockRow(updates[rowNumber])}); err != nil {
			return err
		}
	}

	if len(appended) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(appended))
	for _, item := range appended {
		values = append(values, repository.StockRow(item))
	}
	return s.repo.AppendRows(ctx, stockRange, values)
}

// ListLedger reads the ledger tab.
func (s *Store) ListLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	rows, err := s.repo.ReadRange(ctx, ledgerRange)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, row := range skipHeader(rows) {
		cells := repository.Strings(row)
		if repository.IsBlank(cells) {
			continue
		}
		entry, err := repository.ParseLedgerRow(cells)
		if err != nil {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// AppendLedger appends entries to the ledger tab.
func (s *Store) AppendLedger(ctx context.Context, entries ...models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		values = append(values, repository.LedgerRow(entry))
	}
	return s.repo.AppendRows(ctx, ledgerRange, values)
}

func skipHeader(rows [][]interface{}) [][]interface{} {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
