// Package export serializes the Stock and Ledger tables into downloadable workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/metrics"
	"github.com/mamadbah2/stockledger/internal/repository"
	"github.com/mamadbah2/stockledger/internal/spreadsheet"
)

// Download names.
const (
	StockFileName  = "stok_terkini.xlsx"
	LedgerFileName = "riwayat_mutasi.xlsx"
)

const dateLayout = "2006-01-02"

// Reader is the read side of the store used for exports.
type Reader interface {
	ListStock(ctx context.Context) ([]models.StockItem, error)
	ListLedger(ctx context.Context) ([]models.LedgerEntry, error)
}

// Service writes xlsx exports.
type Service struct {
	store   Reader
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService wires an export service. m may be nil.
func NewService(store Reader, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, metrics: m, logger: logger}
}

// Stock writes the whole Stock table.
func (s *Service) Stock(ctx context.Context, w io.Writer) error {
	items, err := s.store.ListStock(ctx)
	if err != nil {
		return fmt.Errorf("load stock: %w", err)
	}

	s.count("stock")
	return spreadsheet.Write(w, models.SheetStock, models.StockColumns, StockRows(items))
}

// Ledger writes the whole Ledger in append order.
func (s *Service) Ledger(ctx context.Context, w io.Writer) error {
	entries, err := s.store.ListLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	s.count("ledger")
	return spreadsheet.Write(w, models.SheetLedger, models.LedgerColumns, LedgerRows(entries))
}

// Period writes the ledger entries recorded between start and end inclusive.
func (s *Service) Period(ctx context.Context, w io.Writer, start, end string) error {
	entries, err := s.store.ListLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	filtered, err := FilterPeriod(entries, start, end)
	if err != nil {
		return err
	}

	s.logger.Debug("period export",
		zap.String("start", start),
		zap.String("end", end),
		zap.Int("matched", len(filtered)),
		zap.Int("total", len(entries)))

	s.count("period")
	return spreadsheet.Write(w, models.SheetLedgerSpan, models.LedgerColumns, LedgerRows(filtered))
}

func (s *Service) count(table string) {
	if s.metrics != nil {
		s.metrics.Exports.WithLabelValues(table).Inc()
	}
}

// PeriodFileName is the download name of a period export.
func PeriodFileName(start, end string) string {
	return fmt.Sprintf("laporan_%s_sd_%s.xlsx", strings.TrimSpace(start), strings.TrimSpace(end))
}

// FilterPeriod keeps entries whose timestamp t satisfies start <= t <= end. A date-only bound
// means midnight of that day, so a date-only end stops at the first instant of the day. Every timestamp is parsed before filtering, so a single unparseable
// one fails the whole export. start after end is an empty result, not an error.
func FilterPeriod(entries []models.LedgerEntry, start, end string) ([]models.LedgerEntry, error) {
	from, err := parseBound(start)
	if err != nil {
		return nil, err
	}
	to, err := parseBound(end)
	if err != nil {
		return nil, err
	}

	times := make([]time.Time, len(entries))
	for i, entry := range entries {
		t, err := entry.Time()
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		times[i] = t
	}

	out := make([]models.LedgerEntry, 0, len(entries))
	for i, entry := range entries {
		if times[i].Before(from) || times[i].After(to) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func parseBound(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: start_date and end_date are required", models.ErrValidation)
	}

	for _, layout := range []string{dateLayout, "2006-01-02T15:04", models.TimestampLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date %q", models.ErrValidation, value)
}

// StockRows converts items into workbook rows.
func StockRows(items []models.StockItem) [][]interface{} {
	return lo.Map(items, func(item models.StockItem, _ int) []interface{} {
		return repository.StockRow(item)
	})
}

// LedgerRows converts entries into workbook rows.
func LedgerRows(entries []models.LedgerEntry) [][]interface{} {
	return lo.Map(entries, func(entry models.LedgerEntry, _ int) []interface{} {
		return repository.LedgerRow(entry)
	})
}
