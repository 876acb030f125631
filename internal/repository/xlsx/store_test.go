package xlsx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/spreadsheet"
)

func TestNewStore_SeedsHeaderOnlyTables(t *testing.T) {
	dir := t.TempDir()

	_, err := NewStore(dir, nil)
	require.NoError(t, err)

	stockRows, err := spreadsheet.ReadFile(filepath.Join(dir, "stok.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{models.StockColumns}, stockRows)

	ledgerRows, err := spreadsheet.ReadFile(filepath.Join(dir, "mutasi.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{models.LedgerColumns}, ledgerRows)
}

func TestStore_UpsertAndAppendPersist(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	require.NoError(t, store.UpsertStock(ctx,
		models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(3)},
		models.StockItem{Code: "A2", Name: "Gadget", Balance: decimal.RequireFromString("1.5")},
	))
	require.NoError(t, store.UpsertStock(ctx,
		models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(-4)},
		models.StockItem{Code: "A3", Name: "Bolt", Balance: decimal.Zero},
	))

	require.NoError(t, store.AppendLedger(ctx, models.LedgerEntry{
		Timestamp: "2025-03-03 09:30:15", Code: "A1", Name: "Widget", Kind: models.KindOut,
		Quantity: decimal.NewFromInt(7), Note: "sold", Actor: "budi",
	}))
	require.NoError(t, store.AppendLedger(ctx, models.LedgerEntry{
		Timestamp: "2025-03-03 09:31:00", Code: "A3", Name: "Bolt", Kind: models.KindIn,
		Quantity: decimal.RequireFromString("0.25"),
	}))

	// a second store over the same directory sees the persisted tables.
	reopened, err := NewStore(dir, nil)
	require.NoError(t, err)

	stock, err := reopened.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 3)
	assert.Equal(t, []string{"A1", "A2", "A3"}, []string{stock[0].Code, stock[1].Code, stock[2].Code})
	assert.Equal(t, "-4", stock[0].Balance.String())
	assert.Equal(t, "1.5", stock[1].Balance.String())

	ledger, err := reopened.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, "2025-03-03 09:30:15", ledger[0].Timestamp)
	assert.Equal(t, models.KindOut, ledger[0].Kind)
	assert.Equal(t, "sold", ledger[0].Note)
	assert.Equal(t, "budi", ledger[0].Actor)
	assert.Equal(t, "0.25", ledger[1].Quantity.String())
	assert.Equal(t, "", ledger[1].Actor)

	_, err = os.Stat(filepath.Join(dir, ".tmp-stok.xlsx"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewStore_KeepsExistingTables(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpsertStock(ctx, models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(2)}))

	again, err := NewStore(dir, nil)
	require.NoError(t, err)
	stock, err := again.ListStock(ctx)
	require.NoError(t, err)
	assert.Len(t, stock, 1)
}
