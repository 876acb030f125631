package postgres

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DB holds the sqlx handle shared by the Postgres store.
type DB struct {
	Conn *sqlx.DB
}

// NewDBConn opens a lib/pq connection pool for connString. No connection is made until the
// first query.
func NewDBConn(connString string) (DB, error) {
	db, err := sqlx.Open("postgres", connString)
	if err != nil {
		return DB{}, err
	}

	return DB{Conn: db}, nil
}

func (db *DB) Close() error {
	return db.Conn.Close()
}

// MigrateSchema creates the stock and ledger tables when they are missing.
func (db *DB) MigrateSchema() error {
	_, err := db.Conn.Exec(schema)
	return err
}
