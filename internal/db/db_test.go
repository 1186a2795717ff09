package db

import (
	"testing"

	"github.com/arcadia-data/riskstat/internal/fraud"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.TempDir() + "/test_riskstat.db"
	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

func sampleTransactions() []fraud.Transaction {
	return []fraud.Transaction{
		{CustomerID: "C100", Amount: 5200, TransactionCountry: "DE", CustomerCountry: "US", IsFraud: true, Year: 2022},
		{CustomerID: "C101", Amount: 80, TransactionCountry: "US", CustomerCountry: "US", IsFraud: false, Year: 2022},
		{CustomerID: "C102", Amount: 3400, TransactionCountry: "JP", CustomerCountry: "US", IsFraud: false, Year: 2023},
	}
}

func TestInsertAndListTransactions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for _, tx := range sampleTransactions() {
		if err := db.InsertTransaction(tx); err != nil {
			t.Fatalf("InsertTransaction failed: %v", err)
		}
	}

	got, err := db.Transactions()
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}
	if got[0].CustomerID != "C100" || !got[0].IsFraud {
		t.Errorf("unexpected first transaction: %+v", got[0])
	}

	n, err := db.CountTransactions()
	if err != nil {
		t.Fatalf("CountTransactions failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}
}

func TestInsertTransactionsBatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if err := db.InsertTransactions(sampleTransactions()); err != nil {
		t.Fatalf("InsertTransactions failed: %v", err)
	}

	byYear, err := db.TransactionsByYear(2022)
	if err != nil {
		t.Fatalf("TransactionsByYear failed: %v", err)
	}
	if len(byYear) != 2 {
		t.Errorf("expected 2 transactions for 2022, got %d", len(byYear))
	}

	years, err := db.Years()
	if err != nil {
		t.Fatalf("Years failed: %v", err)
	}
	if len(years) != 2 || years[0] != 2022 || years[1] != 2023 {
		t.Errorf("unexpected years: %v", years)
	}
}

func TestTransactionsEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.Transactions()
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no transactions, got %d", len(got))
	}
}

func TestCreateAndListAnalysisReports(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	report := &AnalysisReport{
		RunID:    "a2b9e1a4-0000-4000-8000-000000000001",
		Kind:     "fraud_trend",
		Params:   "years=2021-2023 threshold=3000",
		Filepath: "plots/a2b9e1a4/fraud_trend.png",
	}
	if err := db.CreateAnalysisReport(report); err != nil {
		t.Fatalf("CreateAnalysisReport failed: %v", err)
	}
	if report.ID == 0 {
		t.Error("expected report ID to be set")
	}

	second := &AnalysisReport{RunID: "run-2", Kind: "mean_comparison"}
	if err := db.CreateAnalysisReport(second); err != nil {
		t.Fatalf("CreateAnalysisReport failed: %v", err)
	}

	reports, err := db.ListAnalysisReports(0)
	if err != nil {
		t.Fatalf("ListAnalysisReports failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Kind != "mean_comparison" {
		t.Errorf("expected newest report first, got %q", reports[0].Kind)
	}

	limited, err := db.ListAnalysisReports(1)
	if err != nil {
		t.Fatalf("ListAnalysisReports failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 report with limit, got %d", len(limited))
	}
}
