package repository

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// Tabular backends (xlsx files, Google Sheets) store both tables as plain rows following
// models.StockColumns and models.LedgerColumns. The helpers below convert between rows and
// domain values.

// StockRow renders an item as a row of cell values.
func StockRow(item models.StockItem) []interface{} {
	return []interface{}{item.Code, item.Name, item.Balance.InexactFloat64()}
}

// LedgerRow renders an entry as a row of cell values.
func LedgerRow(entry models.LedgerEntry) []interface{} {
	return []interface{}{
		entry.Timestamp,
		entry.Code,
		entry.Name,
		string(entry.Kind),
		entry.Quantity.InexactFloat64(),
		entry.Note,
		entry.Actor,
	}
}

// ParseStockRow decodes a stock row. Short rows are padded with empty cells.
func ParseStockRow(row []string) (models.StockItem, error) {
	cells := pad(row, len(models.StockColumns))
	balance, err := ParseDecimal(cells[2])
	if err != nil {
		return models.StockItem{}, fmt.Errorf("stock %q balance: %w", cells[0], err)
	}
	return models.StockItem{Code: cells[0], Name: cells[1], Balance: balance}, nil
}

// ParseLedgerRow decodes a ledger row. The timestamp is kept verbatim.
func ParseLedgerRow(row []string) (models.LedgerEntry, error) {
	cells := pad(row, len(models.LedgerColumns))
	quantity, err := ParseDecimal(cells[4])
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("ledger %q quantity: %w", cells[1], err)
	}
	return models.LedgerEntry{
		Timestamp: cells[0],
		Code:      cells[1],
		Name:      cells[2],
		Kind:      models.Kind(cells[3]),
		Quantity:  quantity,
		Note:      cells[5],
		Actor:     cells[6],
	}, nil
}

// ParseDecimal converts a cell into a decimal. Empty cells read as zero.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", models.ErrFormat, value)
	}
	return d, nil
}

// IsBlank reports whether every cell of row is empty.
func IsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Strings converts API cell values into their text form.
func Strings(row []interface{}) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		if cell != nil {
			cells[i] = fmt.Sprint(cell)
		}
	}
	return cells
}

func pad(row []string, width int) []string {
	cells := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		cells[i] = strings.TrimSpace(row[i])
	}
	return cells
}
