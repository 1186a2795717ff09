package stats

// MinMaxNormalize scales x into [0, 1] with (v-min)/(max-min). A constant
// series normalizes to all zeros rather than dividing by zero.
func MinMaxNormalize(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	min, max := x[0], x[0]
	for _, v := range x[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(x))
	if max == min {
		return out
	}
	span := max - min
	for i, v := range x {
		out[i] = (v - min) / span
	}
	return out
}

// CompositeWeights builds a single weight column from three normalized risk
// components. The coefficients come from the risk model, not the data.
type CompositeWeights struct {
	Alpha float64 // exposure importance
	Beta  float64 // default-risk importance
	Gamma float64 // score-stability importance
}

// DefaultCompositeWeights are the risk-team coefficients for the credit
// scoring model.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{Alpha: 0.55, Beta: 0.30, Gamma: 0.15}
}

// Combine min-max normalizes each component, blends them with the
// coefficients, and normalizes the result to sum to one so it can be used
// directly as a weight vector.
func (cw CompositeWeights) Combine(a, b, c []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(a) != len(b) || len(b) != len(c) {
		return nil, ErrLengthMismatch
	}
	na := MinMaxNormalize(a)
	nb := MinMaxNormalize(b)
	nc := MinMaxNormalize(c)

	combined := make([]float64, len(a))
	for i := range combined {
		combined[i] = cw.Alpha*na[i] + cw.Beta*nb[i] + cw.Gamma*nc[i]
	}
	return NormalizeWeights(combined)
}
