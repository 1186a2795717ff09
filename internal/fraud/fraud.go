// Package fraud analyzes transaction datasets for compound-event fraud
// risk: how likely a transaction is fraudulent given that it is both
// international and high value.
package fraud

import (
	"errors"
	"sort"

	"github.com/arcadia-data/riskstat/internal/probability"
)

// DefaultHighValueThreshold marks transactions above this amount as high
// value.
const DefaultHighValueThreshold = 3000.0

// ErrNoFraudTransactions is returned when a fraud-only analysis finds no
// fraud-flagged transactions.
var ErrNoFraudTransactions = errors.New("fraud: no fraud transactions found")

// Transaction is one card/bank transaction.
type Transaction struct {
	CustomerID         string  `json:"customer_id"`
	Amount             float64 `json:"amount"`
	TransactionCountry string  `json:"transaction_country"`
	CustomerCountry    string  `json:"customer_country"`
	IsFraud            bool    `json:"is_fraud"`
	Year               int     `json:"year"`
}

// International reports whether the transaction happened outside the
// customer's home country.
func (t Transaction) International() bool {
	return t.TransactionCountry != t.CustomerCountry
}

// Report holds the compound-event probabilities for one partition of the
// dataset. All probabilities are raw ratios; callers round for display.
type Report struct {
	Year         int `json:"year,omitempty"`
	Transactions int `json:"transactions"`

	PFraud              float64 `json:"p_fraud"`
	PInternational      float64 `json:"p_international"`
	PHighValue          float64 `json:"p_high_value"`
	PCompound           float64 `json:"p_international_and_high_value"`
	PFraudGivenCompound float64 `json:"p_fraud_given_compound"`
}

// Analyzer accumulates transactions and computes compound fraud
// probabilities over them.
type Analyzer struct {
	threshold    float64
	transactions []Transaction
}

// NewAnalyzer returns an analyzer using the given high-value threshold;
// zero or negative means DefaultHighValueThreshold.
func NewAnalyzer(highValueThreshold float64) *Analyzer {
	if highValueThreshold <= 0 {
		highValueThreshold = DefaultHighValueThreshold
	}
	return &Analyzer{threshold: highValueThreshold}
}

// Threshold returns the high-value cutoff in use.
func (a *Analyzer) Threshold() float64 { return a.threshold }

// Add appends one transaction to the dataset.
func (a *Analyzer) Add(t Transaction) {
	a.transactions = append(a.transactions, t)
}

// AddAll appends a batch of transactions.
func (a *Analyzer) AddAll(ts []Transaction) {
	a.transactions = append(a.transactions, ts...)
}

// Len returns how many transactions have been added.
func (a *Analyzer) Len() int { return len(a.transactions) }

// HighValue reports whether the transaction amount exceeds the threshold.
func (a *Analyzer) HighValue(t Transaction) bool {
	return t.Amount > a.threshold
}

// Analyze computes the compound probability report over all transactions.
// An empty dataset yields an all-zero report rather than NaN.
func (a *Analyzer) Analyze() Report {
	return a.analyze(a.transactions, 0)
}

// AnalyzeByYear partitions the dataset by year and reports each partition,
// sorted by year ascending.
func (a *Analyzer) AnalyzeByYear() []Report {
	byYear := make(map[int][]Transaction)
	for _, t := range a.transactions {
		byYear[t.Year] = append(byYear[t.Year], t)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	reports := make([]Report, 0, len(years))
	for _, y := range years {
		reports = append(reports, a.analyze(byYear[y], y))
	}
	return reports
}

func (a *Analyzer) analyze(ts []Transaction, year int) Report {
	r := Report{Year: year, Transactions: len(ts)}
	if len(ts) == 0 {
		return r
	}

	total := float64(len(ts))
	var fraud, intl, high, compound, fraudCompound int
	for _, t := range ts {
		isIntl := t.International()
		isHigh := a.HighValue(t)
		if t.IsFraud {
			fraud++
		}
		if isIntl {
			intl++
		}
		if isHigh {
			high++
		}
		if isIntl && isHigh {
			compound++
			if t.IsFraud {
				fraudCompound++
			}
		}
	}

	r.PFraud = float64(fraud) / total
	r.PInternational = float64(intl) / total
	r.PHighValue = float64(high) / total
	r.PCompound = float64(compound) / total
	if compound > 0 {
		r.PFraudGivenCompound = float64(fraudCompound) / float64(compound)
	}
	return r
}

// FraudAmountDistribution bins the amounts of fraud-flagged transactions
// into a probability frequency distribution.
func (a *Analyzer) FraudAmountDistribution(numBins int) (*probability.FrequencyDistribution, error) {
	var amounts []float64
	for _, t := range a.transactions {
		if t.IsFraud {
			amounts = append(amounts, t.Amount)
		}
	}
	if len(amounts) == 0 {
		return nil, ErrNoFraudTransactions
	}
	return probability.NewFrequencyDistribution(amounts, numBins)
}

// EventTable exposes the dataset as categorical columns for conditional
// probability queries over arbitrary feature pairs.
func (a *Analyzer) EventTable() *probability.Table {
	n := len(a.transactions)
	fraudCol := make([]string, n)
	intlCol := make([]string, n)
	highCol := make([]string, n)
	txnCountry := make([]string, n)
	custCountry := make([]string, n)
	for i, t := range a.transactions {
		fraudCol[i] = yesNo(t.IsFraud)
		intlCol[i] = yesNo(t.International())
		highCol[i] = yesNo(a.HighValue(t))
		txnCountry[i] = t.TransactionCountry
		custCountry[i] = t.CustomerCountry
	}

	tbl := probability.NewTable()
	// Same-length columns from the same slice cannot fail to add.
	_ = tbl.AddColumn("fraud", fraudCol)
	_ = tbl.AddColumn("international", intlCol)
	_ = tbl.AddColumn("high_value", highCol)
	_ = tbl.AddColumn("transaction_country", txnCountry)
	_ = tbl.AddColumn("customer_country", custCountry)
	return tbl
}

// Amounts returns the amount column across all transactions.
func (a *Analyzer) Amounts() []float64 {
	amounts := make([]float64, len(a.transactions))
	for i, t := range a.transactions {
		amounts[i] = t.Amount
	}
	return amounts
}

// Years returns the year column as floats for numeric summaries.
func (a *Analyzer) Years() []float64 {
	years := make([]float64, len(a.transactions))
	for i, t := range a.transactions {
		years[i] = float64(t.Year)
	}
	return years
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
