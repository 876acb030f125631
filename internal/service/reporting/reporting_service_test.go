package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

type stubReader struct {
	items   []models.StockItem
	entries []models.LedgerEntry
	err     error
}

func (s stubReader) ListStock(context.Context) ([]models.StockItem, error) {
	return s.items, s.err
}

func (s stubReader) ListLedger(context.Context) ([]models.LedgerEntry, error) {
	return s.entries, s.err
}

func entry(ts string, kind models.Kind, qty string) models.LedgerEntry {
	return models.LedgerEntry{Timestamp: ts, Code: "A1", Kind: kind, Quantity: decimal.RequireFromString(qty)}
}

func TestDailySummary(t *testing.T) {
	reader := stubReader{
		items: []models.StockItem{
			{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(4)},
			{Code: "A2", Name: "Gadget", Balance: decimal.NewFromInt(-2)},
		},
		entries: []models.LedgerEntry{
			entry("2025-03-02 23:59:59", models.KindIn, "100"),
			entry("2025-03-03 00:00:00", models.KindInitial, "10"),
			entry("2025-03-03 08:15:00", models.KindIn, "2.5"),
			entry("2025-03-03 17:40:00", models.KindOut, "8"),
			entry("not a date", models.KindOut, "50"),
			entry("2025-03-04 00:00:00", models.KindOut, "1"),
		},
	}

	svc := NewService(reader, nil)
	day := time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC)

	got, err := svc.DailySummary(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t,
		"Stock summary 2025-03-03: 2 items. 3 movements: in 2.5, out 8, initial 10.\nNegative balance: A2 (-2).",
		got)
}

func TestDailySummary_NoMovements(t *testing.T) {
	svc := NewService(stubReader{items: []models.StockItem{{Code: "A1", Balance: decimal.NewFromInt(1)}}}, nil)

	got, err := svc.DailySummary(context.Background(), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "Stock summary 2025-03-03: 1 items. No movements recorded.", got)
}

func TestDailySummary_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(stubReader{err: boom}, nil)

	_, err := svc.DailySummary(context.Background(), time.Now())
	assert.ErrorIs(t, err, boom)
}
