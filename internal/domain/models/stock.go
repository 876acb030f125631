package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the layout used for every ledger timestamp written by the service.
const TimestampLayout = "2006-01-02 15:04:05"

// Column headers of the persisted tables.
const (
	ColumnDate      = "Tanggal"
	ColumnCode      = "Kode Barang"
	ColumnName      = "Nama Barang"
	ColumnBalance   = "Saldo"
	ColumnInitial   = "Saldo Awal"
	ColumnKind      = "Jenis"
	ColumnQuantity  = "Jumlah"
	ColumnNote      = "Keterangan"
	ColumnActor     = "Nama Input"
	SheetStock      = "Stok"
	SheetLedger     = "Mutasi"
	SheetLedgerSpan = "Laporan"
)

// StockColumns is the fixed column schema of the Stock table.
var StockColumns = []string{ColumnCode, ColumnName, ColumnBalance}

// LedgerColumns is the fixed column schema of the Ledger table.
var LedgerColumns = []string{ColumnDate, ColumnCode, ColumnName, ColumnKind, ColumnQuantity, ColumnNote, ColumnActor}

// StockItem is one row of the Stock table.
type StockItem struct {
	Code    string
	Name    string
	Balance decimal.Decimal
}

// Kind enumerates ledger movement kinds. The values are the ones persisted in the Jenis column.
type Kind string

const (
	KindIn      Kind = "masuk"
	KindOut     Kind = "keluar"
	KindInitial Kind = "Stok Awal"
)

// ParseKind resolves a client supplied movement kind. Only in/out movements can be requested.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "masuk", "in":
		return KindIn, nil
	case "keluar", "out":
		return KindOut, nil
	default:
		return "", fmt.Errorf("%w: unknown movement kind %q", ErrValidation, value)
	}
}

// LedgerEntry is one append-only movement record.
type LedgerEntry struct {
	Timestamp string
	Code      string
	Name      string
	Kind      Kind
	Quantity  decimal.Decimal
	Note      string
	Actor     string
}

var timestampLayouts = []string{TimestampLayout, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Time parses the stored timestamp.
func (e LedgerEntry) Time() (time.Time, error) {
	return ParseTimestamp(e.Timestamp)
}

// ParseTimestamp parses a ledger timestamp in any of the layouts found in stored tables.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrFormat)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrFormat, value)
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// UploadTable is the raw content of an uploaded initial-stock sheet.
type UploadTable struct {
	Header []string
	Rows   [][]string
}
