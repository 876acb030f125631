// Package memory provides a process-local Store used by tests and demo deployments.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository"
)

// Store keeps both tables in memory.
type Store struct {
	mu     sync.RWMutex
	stock  []models.StockItem
	ledger []models.LedgerEntry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) ListStock(_ context.Context) ([]models.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.stock), nil
}

func (s *Store) UpsertStock(_ context.Context, items ...models.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = repository.MergeStock(s.stock, items...)
	return nil
}

func (s *Store) ListLedger(_ context.Context) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ledger), nil
}

func (s *Store) AppendLedger(_ context.Context, entries ...models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append(s.ledger, entries...)
	return nil
}
