package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

func TestDecimal128RoundTrip(t *testing.T) {
	for _, value := range []string{"0", "12.5", "-3", "0.0001", "123456789.987654321"} {
		d128, err := toDecimal128(decimal.RequireFromString(value))
		require.NoError(t, err)

		back, err := fromDecimal128(d128)
		require.NoError(t, err)
		assert.True(t, back.Equal(decimal.RequireFromString(value)), value)
	}
}

// Runs against the server named by MONGODB_URI using a throwaway database.
func TestRepository_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := "stockledger_test_" + time.Now().Format("20060102150405")
	repo, err := NewMongoDBRepository(ctx, uri, dbName)
	require.NoError(t, err)
	defer func() {
		_ = repo.client.Database(dbName).Drop(ctx)
		_ = repo.Close(ctx)
	}()

	require.NoError(t, repo.UpsertStock(ctx,
		models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(3)},
		models.StockItem{Code: "A2", Name: "Gadget", Balance: decimal.RequireFromString("1.25")},
	))
	require.NoError(t, repo.UpsertStock(ctx, models.StockItem{Code: "A1", Name: "Widget", Balance: decimal.NewFromInt(-1)}))

	stock, err := repo.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 2)
	assert.Equal(t, "A1", stock[0].Code)
	assert.Equal(t, "-1", stock[0].Balance.String())

	require.NoError(t, repo.AppendLedger(ctx,
		models.LedgerEntry{Timestamp: "2025-03-03 09:30:15", Code: "A1", Name: "Widget", Kind: models.KindOut, Quantity: decimal.NewFromInt(4)},
		models.LedgerEntry{Timestamp: "2025-03-03 09:31:00", Code: "A2", Name: "Gadget", Kind: models.KindIn, Quantity: decimal.NewFromInt(1)},
	))

	ledger, err := repo.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, "A1", ledger[0].Code)
	assert.Equal(t, "A2", ledger[1].Code)
}
