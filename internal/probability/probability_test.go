package probability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventProbability(t *testing.T) {
	t.Parallel()

	conditions := []string{"Rain", "Sunny", "Rain", "Cloudy", "Rain"}
	assert.InDelta(t, 0.6, EventProbability(conditions, "Rain"), 1e-12)
	assert.Equal(t, 0.0, EventProbability(conditions, "Snow"))
	assert.Equal(t, 0.0, EventProbability(nil, "Rain"))
}

func TestEquallyLikely(t *testing.T) {
	t.Parallel()

	winners := []string{"Lions", "Hawks", "Lions", "Sharks", "Lions", "Hawks"}
	outcomes := EquallyLikely(winners)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "Lions", outcomes[0].Label)
	assert.InDelta(t, 0.5, outcomes[0].Probability, 1e-12)
	assert.Equal(t, "Hawks", outcomes[1].Label)
	assert.Equal(t, "Sharks", outcomes[2].Label)

	var sum float64
	for _, o := range outcomes {
		sum += o.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	assert.Nil(t, EquallyLikely(nil))
}

func TestConditional(t *testing.T) {
	t.Parallel()

	t.Run("count ratio", func(t *testing.T) {
		t.Parallel()
		target := []bool{true, false, true, true}
		given := []bool{true, true, true, false}
		p, err := Conditional(target, given)
		require.NoError(t, err)
		// 2 of the 3 given rows are also target rows.
		assert.InDelta(t, 2.0/3.0, p, 1e-12)
	})

	t.Run("condition never holds", func(t *testing.T) {
		t.Parallel()
		p, err := Conditional([]bool{true}, []bool{false})
		require.NoError(t, err)
		assert.Equal(t, 0.0, p)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := Conditional([]bool{true}, []bool{true, false})
		assert.Error(t, err)
	})
}

func TestTableConditionalProbability(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	require.NoError(t, tbl.AddColumn("diagnosis", []string{"Positive", "Negative", "Positive", "Negative"}))
	require.NoError(t, tbl.AddColumn("smoker", []string{"Yes", "Yes", "No", "No"}))

	p, err := tbl.ConditionalProbability("diagnosis", "Positive", "smoker", "Yes")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	_, err = tbl.ConditionalProbability("age", "40", "smoker", "Yes")
	assert.ErrorIs(t, err, ErrUnknownFeature)

	_, err = tbl.ConditionalProbability("diagnosis", "Unknown", "smoker", "Yes")
	assert.ErrorIs(t, err, ErrUnknownValue)

	err = tbl.AddColumn("short", []string{"a"})
	assert.Error(t, err)
}

func TestExpectedValue(t *testing.T) {
	t.Parallel()

	t.Run("sum of p times v", func(t *testing.T) {
		t.Parallel()
		ev, err := ExpectedValue([]WeightedOutcome{
			{Label: "Mild", Value: 100, Probability: 0.5},
			{Label: "Severe", Value: 1000, Probability: 0.3},
			{Label: "Critical", Value: 5000, Probability: 0.2},
		})
		require.NoError(t, err)
		assert.InDelta(t, 1350.0, ev, 1e-9)
	})

	t.Run("rejects probabilities outside unit interval", func(t *testing.T) {
		t.Parallel()
		_, err := ExpectedValue([]WeightedOutcome{{Value: 1, Probability: 1.2}})
		assert.ErrorIs(t, err, ErrInvalidDistribution)
	})

	t.Run("rejects distributions not summing to one", func(t *testing.T) {
		t.Parallel()
		_, err := ExpectedValue([]WeightedOutcome{
			{Value: 1, Probability: 0.4},
			{Value: 2, Probability: 0.4},
		})
		assert.ErrorIs(t, err, ErrInvalidDistribution)
	})
}

func TestSuccessRatio(t *testing.T) {
	t.Parallel()

	p, err := SuccessRatio([]TrialRun{
		{Successes: 3, Trials: 50},
		{Successes: 7, Trials: 50},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, p, 1e-12)

	_, err = SuccessRatio([]TrialRun{{Successes: 5, Trials: 2}})
	assert.Error(t, err)

	_, err = SuccessRatio(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBinomialPMF(t *testing.T) {
	t.Parallel()

	// Fair coin, two tosses: P(1 head) = 0.5.
	p, err := BinomialPMF(2, 1, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	// PMF sums to one over all k.
	var sum float64
	for k := 0; k <= 10; k++ {
		pk, err := BinomialPMF(10, k, 0.3)
		require.NoError(t, err)
		sum += pk
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	_, err = BinomialPMF(5, 6, 0.5)
	assert.Error(t, err)
}
