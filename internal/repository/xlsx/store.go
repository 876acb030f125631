// Package xlsx stores the Stock and Ledger tables as two workbooks on disk, the layout the
// warehouse staff open directly in a spreadsheet application.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
	"github.com/mamadbah2/stockledger/internal/spreadsheet"
)

const (
	stockFile  = "stok.xlsx"
	ledgerFile = "mutasi.xlsx"
)

// Store is a repository.Store backed by xlsx files. Every write rewrites the affected file
// through a temporary file and a rename.
type Store struct {
	stockPath  string
	ledgerPath string
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewStore prepares dir and seeds header-only workbooks for missing tables.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "data"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	s := &Store{
		stockPath:  filepath.Join(dir, stockFile),
		ledgerPath: filepath.Join(dir, ledgerFile),
		logger:     logger,
	}

	if err := s.ensure(s.stockPath, models.SheetStock, models.StockColumns); err != nil {
		return nil, err
	}
	if err := s.ensure(s.ledgerPath, models.SheetLedger, models.LedgerColumns); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) ensure(path, sheet string, header []string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return err
	}

	s.logger.Info("initializing empty table", zap.String("path", path))
	return writeTable(path, sheet, header, nil)
}

// ListStock reads the stock workbook.
func (s *Store) ListStock(_ context.Context) ([]models.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadStock()
}

// UpsertStock merges items into the stock workbook and rewrites it.
func (s *Store) UpsertStock(_ context.Context, items ...models.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.loadStock()
	if err != nil {
		return err
	}
	table = repository.MergeStock(table, items...)

	rows := make([][]interface{}, 0, len(table))
	for _, item := range table {
		rows = append(rows, repository.StockRow(item))
	}

	return writeTable(s.stockPath, models.SheetStock, models.StockColumns, rows)
}

// ListLedger reads the ledger workbook.
func (s *Store) ListLedger(_ context.Context) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLedger()
}

// AppendLedger adds entries after the existing ledger rows.
func (s *Store) AppendLedger(_ context.Context, entries ...models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := spreadsheet.ReadFile(s.ledgerPath)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(existing)+len(entries))
	for _, raw := range dataRows(existing) {
		rows = append(rows, cellsToValues(raw))
	}
	for _, entry := range entries {
		rows = append(rows, repository.LedgerRow(entry))
	}

	return writeTable(s.ledgerPath, models.SheetLedger, models.LedgerColumns, rows)
}

func (s *Store) loadStock() ([]models.StockItem, error) {
	raw, err := spreadsheet.ReadFile(s.stockPath)
	if err != nil {
		return nil, err
	}

	items := make([]models.StockItem, 0, len(raw))
	for _, row := range dataRows(raw) {
		item, err := repository.ParseStockRow(row)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", s.stockPath, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) loadLedger() ([]models.LedgerEntry, error) {
	raw, err := spreadsheet.ReadFile(s.ledgerPath)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LedgerEntry, 0, len(raw))
	for _, row := range dataRows(raw) {
		entry, err := repository.ParseLedgerRow(row)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", s.ledgerPath, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// dataRows drops the header row and blank rows.
func dataRows(raw [][]string) [][]string {
	if len(raw) <= 1 {
		return nil
	}

	out := make([][]string, 0, len(raw)-1)
	for _, row := range raw[1:] {
		if repository.IsBlank(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// cellsToValues keeps ledger rows read back from disk in their stored form, with quantities
// converted back to numbers.
func cellsToValues(row []string) []interface{} {
	entry, err := repository.ParseLedgerRow(row)
	if err != nil {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cell
		}
		return values
	}
	return repository.LedgerRow(entry)
}

func writeTable(path, sheet string, header []string, rows [][]interface{}) error {
	f, err := spreadsheet.Build(sheet, header, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	// excelize only saves files with a workbook extension.
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
