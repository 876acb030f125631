package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Reader is the read side of the store the report is computed from.
type Reader interface {
	ListStock(ctx context.Context) ([]models.StockItem, error)
	ListLedger(ctx context.Context) ([]models.LedgerEntry, error)
}

// Service builds short text summaries of the warehouse state.
type Service struct {
	repo   Reader
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository Reader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, logger: logger}
}

// DailySummary reports the item count, the items below zero and the movement totals recorded
// on day (in day's location).
func (s *Service) DailySummary(ctx context.Context, day time.Time) (string, error) {
	items, err := s.repo.ListStock(ctx)
	if err != nil {
		return "", fmt.Errorf("load stock: %w", err)
	}

	entries, err := s.repo.ListLedger(ctx)
	if err != nil {
		return "", fmt.Errorf("load ledger: %w", err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	totals := map[models.Kind]decimal.Decimal{}
	var movements int

	for _, entry := range entries {
		recorded, err := models.ParseTimestamp(entry.Timestamp)
		if err != nil {
			s.logger.Debug("skip ledger row with invalid date", zap.String("value", entry.Timestamp), zap.Error(err))
			continue
		}
		// stored timestamps carry no zone; read them as wall clock time in day's location.
		recorded = time.Date(recorded.Year(), recorded.Month(), recorded.Day(),
			recorded.Hour(), recorded.Minute(), recorded.Second(), 0, day.Location())
		if recorded.Before(start) || !recorded.Before(end) {
			continue
		}

		totals[entry.Kind] = totals[entry.Kind].Add(entry.Quantity)
		movements++
	}

	var negative []string
	for _, item := range items {
		if item.Balance.IsNegative() {
			negative = append(negative, fmt.Sprintf("%s (%s)", item.Code, item.Balance.String()))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stock summary %s: %d items.", start.Format(dateLayout), len(items))

	if movements == 0 {
		b.WriteString(" No movements recorded.")
	} else {
		fmt.Fprintf(&b, " %d movements: in %s, out %s, initial %s.",
			movements,
			totals[models.KindIn].String(),
			totals[models.KindOut].String(),
			totals[models.KindInitial].String())
	}

	if len(negative) > 0 {
		fmt.Fprintf(&b, "\nNegative balance: %s.", strings.Join(negative, ", "))
	}

	return b.String(), nil
}
