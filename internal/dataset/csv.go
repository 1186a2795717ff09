// Package dataset loads transaction datasets from CSV files and validates
// them the way the analysis engines expect: required columns must be
// present, amounts must parse, and an empty dataset is an error.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arcadia-data/riskstat/internal/fraud"
)

var (
	// ErrDatasetNotFound is returned when the dataset file does not exist.
	ErrDatasetNotFound = errors.New("dataset: file not found")
	// ErrDatasetEmpty is returned when the dataset has a header but no rows.
	ErrDatasetEmpty = errors.New("dataset: contains no records")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("dataset: required column missing")
	// ErrInvalidValue is returned when a cell cannot be parsed.
	ErrInvalidValue = errors.New("dataset: invalid value")
)

// Options controls CSV parsing. Column names identify fields in the header
// row; the defaults match the bundled fixtures.
type Options struct {
	Delimiter rune

	CustomerIDColumn         string
	AmountColumn             string
	TransactionCountryColumn string
	CustomerCountryColumn    string
	FraudColumn              string
	YearColumn               string
}

// DefaultOptions returns the default CSV column mapping.
func DefaultOptions() *Options {
	return &Options{
		Delimiter:                ',',
		CustomerIDColumn:         "customer_id",
		AmountColumn:             "amount",
		TransactionCountryColumn: "transaction_country",
		CustomerCountryColumn:    "customer_country",
		FraudColumn:              "is_fraud",
		YearColumn:               "year",
	}
}

// LoadTransactions reads a transaction dataset from a CSV file.
func LoadTransactions(path string, opts *Options) ([]fraud.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, err
	}
	defer file.Close()

	return LoadTransactionsFromReader(file, opts)
}

// LoadTransactionsFromReader reads a transaction dataset from an io.Reader.
// The first row must be a header naming the configured columns.
func LoadTransactionsFromReader(r io.Reader, opts *Options) ([]fraud.Transaction, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrDatasetEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	required := []string{
		opts.CustomerIDColumn,
		opts.AmountColumn,
		opts.TransactionCountryColumn,
		opts.CustomerCountryColumn,
		opts.FraudColumn,
		opts.YearColumn,
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var transactions []fraud.Transaction
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: failed to read row %d: %w", line+1, err)
		}
		line++

		amountField := strings.TrimSpace(record[idx[opts.AmountColumn]])
		if amountField == "" {
			return nil, fmt.Errorf("%w: empty amount on row %d", ErrInvalidValue, line)
		}
		amount, err := strconv.ParseFloat(amountField, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q on row %d", ErrInvalidValue, amountField, line)
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[idx[opts.YearColumn]]))
		if err != nil {
			return nil, fmt.Errorf("%w: year %q on row %d", ErrInvalidValue, record[idx[opts.YearColumn]], line)
		}

		isFraud, err := parseFlag(record[idx[opts.FraudColumn]])
		if err != nil {
			return nil, fmt.Errorf("%w on row %d", err, line)
		}

		transactions = append(transactions, fraud.Transaction{
			CustomerID:         strings.TrimSpace(record[idx[opts.CustomerIDColumn]]),
			Amount:             amount,
			TransactionCountry: strings.TrimSpace(record[idx[opts.TransactionCountryColumn]]),
			CustomerCountry:    strings.TrimSpace(record[idx[opts.CustomerCountryColumn]]),
			IsFraud:            isFraud,
			Year:               year,
		})
	}

	if len(transactions) == 0 {
		return nil, ErrDatasetEmpty
	}
	return transactions, nil
}

// parseFlag accepts the fraud-flag spellings seen across source datasets:
// Yes/No, true/false, 1/0.
func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: fraud flag %q", ErrInvalidValue, s)
	}
}
