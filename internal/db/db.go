// Package db persists transactions and analysis report records in SQLite.
package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the SQLite database at path and ensures
// the baseline schema exists. The migrations under migrations/ use IF NOT
// EXISTS as well, so a baseline database and a migrated one converge.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS transactions (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id         TEXT NOT NULL,
			amount              DOUBLE NOT NULL,
			transaction_country TEXT NOT NULL,
			customer_country    TEXT NOT NULL,
			is_fraud            BOOLEAN NOT NULL DEFAULT 0,
			year                INTEGER NOT NULL,
			inserted_at         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_year ON transactions(year);
		CREATE TABLE IF NOT EXISTS analysis_reports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			kind       TEXT NOT NULL,
			params     TEXT,
			filepath   TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}
