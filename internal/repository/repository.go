// Package repository defines the persistence port shared by every storage backend.
package repository

import (
	"context"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// Store persists the Stock and Ledger tables.
//
// ListStock and ListLedger return rows in storage order (insertion order). UpsertStock
// replaces rows whose code already exists and appends the others. AppendLedger only ever
// adds entries; no backend mutates or deletes ledger rows.
type Store interface {
	ListStock(ctx context.Context) ([]models.StockItem, error)
	UpsertStock(ctx context.Context, items ...models.StockItem) error
	ListLedger(ctx context.Context) ([]models.LedgerEntry, error)
	AppendLedger(ctx context.Context, entries ...models.LedgerEntry) error
}

// MergeStock applies upsert semantics to an in-memory table and returns the merged table.
// Existing codes keep their position; new codes are appended in input order.
func MergeStock(table []models.StockItem, items ...models.StockItem) []models.StockItem {
	index := make(map[string]int, len(table))
	for i, item := range table {
		index[item.Code] = i
	}

	for _, item := range items {
		if i, ok := index[item.Code]; ok {
			table[i] = item
			continue
		}
		index[item.Code] = len(table)
		table = append(table, item)
	}

	return table
}
