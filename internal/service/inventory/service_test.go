package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/metrics"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
)

var fixedNow = time.Date(2025, time.March, 3, 9, 30, 15, 0, time.Local)

func newTestService(t *testing.T, items ...models.StockItem) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.UpsertStock(context.Background(), items...))

	svc := NewService(store, metrics.New(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func item(code, name string, balance int64) models.StockItem {
	return models.StockItem{Code: code, Name: name, Balance: decimal.NewFromInt(balance)}
}

func TestApplyMutation_In(t *testing.T) {
	svc, store := newTestService(t, item("A1", "Widget", 3))
	ctx := context.Background()

	err := svc.ApplyMutation(ctx, MutationRequest{Code: " A1 ", Kind: "masuk", Quantity: "2.5", Note: "restock", Actor: "budi"})
	require.NoError(t, err)

	stock, err := store.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, "5.5", stock[0].Balance.String())

	ledger, err := store.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.LedgerEntry{
		Timestamp: "2025-03-03 09:30:15",
		Code:      "A1",
		Name:      "Widget",
		Kind:      models.KindIn,
		Quantity:  decimal.RequireFromString("2.5"),
		Note:      "restock",
		Actor:     "budi",
	}, ledger[0])
}

func TestApplyMutation_OutHasNoFloor(t *testing.T) {
	svc, store := newTestService(t, item("A1", "Widget", 3))
	ctx := context.Background()

	require.NoError(t, svc.ApplyMutation(ctx, MutationRequest{Code: "A1", Kind: "keluar", Quantity: "5"}))

	stock, err := store.ListStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-2", stock[0].Balance.String())

	ledger, err := store.ListLedger(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, models.KindOut, ledger[0].Kind)
	assert.Equal(t, "5", ledger[0].Quantity.String())
}

func TestApplyMutation_EmptyQuantityIsZero(t *testing.T) {
	svc, store := newTestService(t, item("A1", "Widget", 3))
	ctx := context.Background()

	require.NoError(t, svc.ApplyMutation(ctx, MutationRequest{Code: "A1", Kind: "in"}))

	stock, _ := store.ListStock(ctx)
	assert.Equal(t, "3", stock[0].Balance.String())
	ledger, _ := store.ListLedger(ctx)
	assert.Len(t, ledger, 1)
}

func TestApplyMutation_Rejected(t *testing.T) {
	testCases := []struct {
		name    string
		req     MutationRequest
		wantErr error
	}{
		{
			name:    "unknown code",
			req:     MutationRequest{Code: "ZZ", Kind: "masuk", Quantity: "1"},
			wantErr: models.ErrNotFound,
		},
		{
			name:    "empty code",
			req:     MutationRequest{Code: "  ", Kind: "masuk", Quantity: "1"},
			wantErr: models.ErrNotFound,
		},
		{
			name:    "unknown kind",
			req:     MutationRequest{Code: "A1", Kind: "transfer", Quantity: "1"},
			wantErr: models.ErrValidation,
		},
		{
			name:    "initial kind is not accepted from clients",
			req:     MutationRequest{Code: "A1", Kind: "Stok Awal", Quantity: "1"},
			wantErr: models.ErrValidation,
		},
		{
			name:    "non numeric quantity",
			req:     MutationRequest{Code: "A1", Kind: "masuk", Quantity: "ten"},
			wantErr: models.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService(t, item("A1", "Widget", 3))
			ctx := context.Background()

			err := svc.ApplyMutation(ctx, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)

			stock, _ := store.ListStock(ctx)
			assert.Equal(t, []models.StockItem{item("A1", "Widget", 3)}, stock)
			ledger, _ := store.ListLedger(ctx)
			assert.Empty(t, ledger)
		})
	}
}

type failingLedgerStore struct {
	*memory.Store
}

func (failingLedgerStore) AppendLedger(context.Context, ...models.LedgerEntry) error {
	return errors.New("disk full")
}

func TestApplyMutation_LedgerFailureKeepsStockWrite(t *testing.T) {
	store := failingLedgerStore{Store: memory.NewStore()}
	ctx := context.Background()
	require.NoError(t, store.UpsertStock(ctx, item("A1", "Widget", 3)))

	svc := NewService(store, nil, nil)
	err := svc.ApplyMutation(ctx, MutationRequest{Code: "A1", Kind: "masuk", Quantity: "1"})
	require.Error(t, err)
	assert.False(t, models.IsClientError(err))

	stock, _ := store.ListStock(ctx)
	assert.Equal(t, "4", stock[0].Balance.String())
}

func TestAddItem(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, "A1", "Widget"))

	err := svc.AddItem(ctx, "A1", "Other")
	assert.ErrorIs(t, err, models.ErrDuplicate)

	stock, err := store.ListStock(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, "Widget", stock[0].Name)
	assert.True(t, stock[0].Balance.IsZero())

	ledger, _ := store.ListLedger(ctx)
	assert.Empty(t, ledger)
}

func TestAddItem_RequiresCodeAndName(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.AddItem(ctx, " ", "Widget"), models.ErrValidation)
	assert.ErrorIs(t, svc.AddItem(ctx, "A1", "   "), models.ErrValidation)

	stock, _ := store.ListStock(ctx)
	assert.Empty(t, stock)
}

func TestLookupBalance(t *testing.T) {
	svc, _ := newTestService(t,
		item("A1", "Blue Widget", 3),
		item("WID", "Gadget", 7),
		item("A3", "Red widget", 9),
	)
	ctx := context.Background()

	testCases := []struct {
		name      string
		query     string
		wantFound bool
		want      int64
	}{
		{name: "empty", query: "  ", wantFound: false},
		{name: "exact code", query: "A3", wantFound: true, want: 9},
		{name: "exact code wins over name match", query: "WID", wantFound: true, want: 7},
		{name: "case-insensitive name substring, first in table order", query: "wid", wantFound: true, want: 3},
		{name: "no match", query: "bolt", wantFound: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			balance, found, err := svc.LookupBalance(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantFound, found)
			if tc.wantFound {
				assert.True(t, balance.Equal(decimal.NewFromInt(tc.want)), "got %s", balance)
			}
		})
	}
}
