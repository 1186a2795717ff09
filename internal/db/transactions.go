package db

import (
	"fmt"

	"github.com/arcadia-data/riskstat/internal/fraud"
)

// InsertTransaction stores one transaction.
func (db *DB) InsertTransaction(t fraud.Transaction) error {
	_, err := db.Exec(
		`INSERT INTO transactions (
			customer_id, amount, transaction_country, customer_country, is_fraud, year
		) VALUES (?, ?, ?, ?, ?, ?)`,
		t.CustomerID, t.Amount, t.TransactionCountry, t.CustomerCountry, t.IsFraud, t.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// InsertTransactions stores a batch of transactions in a single database
// transaction so a bad row aborts the whole load.
func (db *DB) InsertTransactions(ts []fraud.Transaction) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO transactions (
			customer_id, amount, transaction_country, customer_country, is_fraud, year
		) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range ts {
		if _, err := stmt.Exec(
			t.CustomerID, t.Amount, t.TransactionCountry, t.CustomerCountry, t.IsFraud, t.Year,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert transaction for customer %s: %w", t.CustomerID, err)
		}
	}
	return tx.Commit()
}

// Transactions returns every stored transaction, oldest insert first.
func (db *DB) Transactions() ([]fraud.Transaction, error) {
	return db.queryTransactions(
		`SELECT customer_id, amount, transaction_country, customer_country, is_fraud, year
		 FROM transactions ORDER BY id`)
}

// TransactionsByYear returns the stored transactions for one year.
func (db *DB) TransactionsByYear(year int) ([]fraud.Transaction, error) {
	return db.queryTransactions(
		`SELECT customer_id, amount, transaction_country, customer_country, is_fraud, year
		 FROM transactions WHERE year = ? ORDER BY id`, year)
}

func (db *DB) queryTransactions(query string, args ...any) ([]fraud.Transaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []fraud.Transaction
	for rows.Next() {
		var t fraud.Transaction
		if err := rows.Scan(
			&t.CustomerID,
			&t.Amount,
			&t.TransactionCountry,
			&t.CustomerCountry,
			&t.IsFraud,
			&t.Year,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

// Years returns the distinct transaction years, ascending.
func (db *DB) Years() ([]int, error) {
	rows, err := db.Query(`SELECT DISTINCT year FROM transactions ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return years, nil
}

// CountTransactions returns the number of stored transactions.
func (db *DB) CountTransactions() (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
