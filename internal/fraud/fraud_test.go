package fraud

import (
	"testing"

	"github.com/arcadia-data/riskstat/internal/probability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(amount float64, txnCountry, custCountry string, isFraud bool, year int) Transaction {
	return Transaction{
		CustomerID:         "C1",
		Amount:             amount,
		TransactionCountry: txnCountry,
		CustomerCountry:    custCountry,
		IsFraud:            isFraud,
		Year:               year,
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0) // default threshold 3000
	a.AddAll([]Transaction{
		txn(5000, "DE", "US", true, 2023),  // intl + high, fraud
		txn(4000, "FR", "US", false, 2023), // intl + high
		txn(3500, "US", "US", true, 2023),  // high only
		txn(200, "GB", "US", false, 2023),  // intl only
		txn(100, "US", "US", false, 2023),  // neither
	})

	r := a.Analyze()
	assert.Equal(t, 5, r.Transactions)
	assert.InDelta(t, 2.0/5.0, r.PFraud, 1e-12)
	assert.InDelta(t, 3.0/5.0, r.PInternational, 1e-12)
	assert.InDelta(t, 3.0/5.0, r.PHighValue, 1e-12)
	assert.InDelta(t, 2.0/5.0, r.PCompound, 1e-12)
	// 1 fraud among the 2 international+high-value transactions.
	assert.InDelta(t, 0.5, r.PFraudGivenCompound, 1e-12)
}

// The conditional probability must always equal the count ratio
// count(fraud ∧ intl ∧ high) / count(intl ∧ high), and every probability
// must stay inside [0,1].
func TestConditionalEqualsCountRatio(t *testing.T) {
	t.Parallel()

	datasets := [][]Transaction{
		{
			txn(5000, "DE", "US", true, 2021),
			txn(3200, "JP", "US", true, 2021),
			txn(9000, "BR", "US", false, 2021),
			txn(50, "US", "US", false, 2021),
		},
		{
			txn(10, "US", "US", false, 2022),
			txn(20, "US", "US", true, 2022),
		},
		{}, // empty partition
	}

	for _, ds := range datasets {
		a := NewAnalyzer(0)
		a.AddAll(ds)

		var compound, fraudCompound int
		for _, tx := range ds {
			if tx.International() && a.HighValue(tx) {
				compound++
				if tx.IsFraud {
					fraudCompound++
				}
			}
		}

		r := a.Analyze()
		if compound == 0 {
			assert.Equal(t, 0.0, r.PFraudGivenCompound)
		} else {
			assert.InDelta(t, float64(fraudCompound)/float64(compound), r.PFraudGivenCompound, 1e-12)
		}

		for _, p := range []float64{r.PFraud, r.PInternational, r.PHighValue, r.PCompound, r.PFraudGivenCompound} {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestAnalyzeByYear(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0)
	a.AddAll([]Transaction{
		txn(5000, "DE", "US", true, 2022),
		txn(100, "US", "US", false, 2022),
		txn(4000, "FR", "US", false, 2021),
		txn(9000, "JP", "US", true, 2021),
	})

	reports := a.AnalyzeByYear()
	require.Len(t, reports, 2)
	assert.Equal(t, 2021, reports[0].Year)
	assert.Equal(t, 2022, reports[1].Year)
	assert.Equal(t, 2, reports[0].Transactions)
	assert.InDelta(t, 0.5, reports[0].PFraudGivenCompound, 1e-12)
}

func TestCustomThreshold(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(1000)
	assert.Equal(t, 1000.0, a.Threshold())
	assert.True(t, a.HighValue(txn(1001, "US", "US", false, 2023)))
	assert.False(t, a.HighValue(txn(1000, "US", "US", false, 2023)))
}

func TestFraudAmountDistribution(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0)
	a.AddAll([]Transaction{
		txn(100, "US", "US", true, 2023),
		txn(900, "US", "US", true, 2023),
		txn(4500, "DE", "US", true, 2023),
		txn(50, "US", "US", false, 2023),
	})

	dist, err := a.FraudAmountDistribution(2)
	require.NoError(t, err)
	assert.Equal(t, 3, dist.Total) // only fraud rows are binned

	empty := NewAnalyzer(0)
	empty.Add(txn(50, "US", "US", false, 2023))
	_, err = empty.FraudAmountDistribution(2)
	assert.ErrorIs(t, err, ErrNoFraudTransactions)
}

func TestEventTable(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(0)
	a.AddAll([]Transaction{
		txn(5000, "DE", "US", true, 2023),
		txn(4000, "FR", "US", false, 2023),
		txn(100, "US", "US", false, 2023),
	})

	tbl := a.EventTable()
	assert.Equal(t, 3, tbl.Rows())

	p, err := tbl.ConditionalProbability("fraud", "Yes", "international", "Yes")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	_, err = tbl.ConditionalProbability("fraud", "Yes", "amount", "100")
	assert.ErrorIs(t, err, probability.ErrUnknownFeature)
}
