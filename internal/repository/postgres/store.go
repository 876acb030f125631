package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

type stockRow struct {
	Code    string          `db:"code"`
	Name    string          `db:"name"`
	Balance decimal.Decimal `db:"balance"`
}

type ledgerRow struct {
	RecordedAt string          `db:"recorded_at"`
	Code       string          `db:"code"`
	Name       string          `db:"name"`
	Kind       string          `db:"kind"`
	Quantity   decimal.Decimal `db:"quantity"`
	Note       string          `db:"note"`
	Actor      string          `db:"actor"`
}

// Store is a repository.Store on PostgreSQL. A batch of stock upserts or ledger inserts runs
// in one transaction; the two tables are written in separate transactions.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	if db == nil {
		panic("db is nil")
	}
	return &Store{db: db}
}

func (s *Store) ListStock(ctx context.Context) ([]models.StockItem, error) {
	var rows []stockRow
	err := s.db.Conn.SelectContext(ctx, &rows, `SELECT code, name, balance FROM stock ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not list stock: %w", err)
	}

	items := make([]models.StockItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.StockItem{Code: row.Code, Name: row.Name, Balance: row.Balance})
	}
	return items, nil
}

func (s *Store) UpsertStock(ctx context.Context, items ...models.StockItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin stock transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, item := range items {
		_, err := tx.NamedExecContext(ctx, `
		INSERT INTO
			stock (code, name, balance)
		VALUES
			(:code, :name, :balance)
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, balance = EXCLUDED.balance`,
			stockRow{Code: item.Code, Name: item.Name, Balance: item.Balance},
		)
		if err != nil {
			return fmt.Errorf("could not upsert stock %s: %w", item.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit stock: %w", err)
	}
	return nil
}

func (s *Store) ListLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	var rows []ledgerRow
	err := s.db.Conn.SelectContext(ctx, &rows, `
	SELECT recorded_at, code, name, kind, quantity, note, actor
	FROM ledger
	ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("could not list ledger: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.LedgerEntry{
			Timestamp: row.RecordedAt,
			Code:      row.Code,
			Name:      row.Name,
			Kind:      models.Kind(row.Kind),
			Quantity:  row.Quantity,
			Note:      row.Note,
			Actor:     row.Actor,
		})
	}
	return entries, nil
}

func (s *Store) AppendLedger(ctx context.Context, entries ...models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]ledgerRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, ledgerRow{
			RecordedAt: entry.Timestamp,
			Code:       entry.Code,
			Name:       entry.Name,
			Kind:       string(entry.Kind),
			Quantity:   entry.Quantity,
			Note:       entry.Note,
			Actor:      entry.Actor,
		})
	}

	_, err := s.db.Conn.NamedExecContext(ctx, `
	INSERT INTO
		ledger (recorded_at, code, name, kind, quantity, note, actor)
	VALUES
		(:recorded_at, :code, :name, :kind, :quantity, :note, :actor)`,
		rows,
	)
	if err != nil {
		return fmt.Errorf("could not append ledger: %w", err)
	}
	return nil
}
