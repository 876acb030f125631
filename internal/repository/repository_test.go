package repository

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func TestMergeStock(t *testing.T) {
	table := []models.StockItem{
		{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(1)},
		{Code: "A2", Name: "Gadget", Balance: decimal.NewFromInt(2)},
	}

	merged := MergeStock(table,
		models.StockItem{Code: "A3", Name: "Bolt", Balance: decimal.NewFromInt(3)},
		models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(9)},
		models.StockItem{Code: "A3", Name: "Bolt", Balance: decimal.NewFromInt(4)},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, "A1", merged[0].Code)
	assert.Equal(t, "9", merged[0].Balance.String())
	assert.Equal(t, "A2", merged[1].Code)
	assert.Equal(t, "A3", merged[2].Code)
	assert.Equal(t, "4", merged[2].Balance.String())
}

func TestParseStockRow(t *testing.T) {
	item, err := ParseStockRow([]string{" A1 ", "Widget", "12.75"})
	require.NoError(t, err)
	assert.Equal(t, "A1", item.Code)
	assert.Equal(t, "12.75", item.Balance.String())

	item, err = ParseStockRow([]string{"A2", "Gadget"})
	require.NoError(t, err)
	assert.True(t, item.Balance.IsZero())

	_, err = ParseStockRow([]string{"A3", "Bolt", "lots"})
	assert.True(t, errors.Is(err, models.ErrFormat))
}

func TestParseLedgerRow(t *testing.T) {
	entry, err := ParseLedgerRow([]string{"2025-03-03 09:30:15", "A1", "Widget", "masuk", "5"})
	require.NoError(t, err)
	assert.Equal(t, models.KindIn, entry.Kind)
	assert.Equal(t, "5", entry.Quantity.String())
	assert.Equal(t, "", entry.Note)
	assert.Equal(t, "", entry.Actor)

	_, err = ParseLedgerRow([]string{"2025-03-03 09:30:15", "A1", "Widget", "masuk", "five"})
	assert.True(t, errors.Is(err, models.ErrFormat))
}

func TestStringsAndIsBlank(t *testing.T) {
	cells := Strings([]interface{}{"A1", nil, float64(2.5), 3})
	assert.Equal(t, []string{"A1", "", "2.5", "3"}, cells)

	assert.True(t, IsBlank([]string{"", "  "}))
	assert.True(t, IsBlank(nil))
	assert.False(t, IsBlank([]string{"", "x"}))
}
