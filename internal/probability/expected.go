package probability

import (
	"errors"
	"fmt"
	"math"
)

// probSumTolerance is how far outcome probabilities may drift from 1.0
// before the distribution is rejected.
const probSumTolerance = 1e-6

// WeightedOutcome is one row of an expected-value computation: an outcome
// value and its probability of occurring.
type WeightedOutcome struct {
	Label       string  `json:"label,omitempty"`
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// ErrInvalidDistribution is returned when outcome probabilities fall outside
// [0,1] or do not sum to one.
var ErrInvalidDistribution = errors.New("probability: invalid outcome distribution")

// ExpectedValue returns Σ p_i·v_i over the outcomes. Probabilities must each
// lie in [0,1] and together sum to one (within tolerance).
func ExpectedValue(outcomes []WeightedOutcome) (float64, error) {
	if len(outcomes) == 0 {
		return 0, ErrEmptyInput
	}
	var sum, ev float64
	for _, o := range outcomes {
		if o.Probability < 0 || o.Probability > 1 {
			return 0, fmt.Errorf("%w: probability %v out of [0,1]", ErrInvalidDistribution, o.Probability)
		}
		sum += o.Probability
		ev += o.Probability * o.Value
	}
	if math.Abs(sum-1) > probSumTolerance {
		return 0, fmt.Errorf("%w: probabilities sum to %v", ErrInvalidDistribution, sum)
	}
	return ev, nil
}
