package stats

import "errors"

// ErrInvalidReturnRate is returned for percentage return rates at or below
// -100%, where the growth factor would be non-positive.
var ErrInvalidReturnRate = errors.New("stats: return rate must be greater than -100%")

// GrowthFactors converts percentage return rates into multiplicative growth
// factors (1 + rate/100). Rates at or below -100% are rejected.
func GrowthFactors(ratesPercent []float64) ([]float64, error) {
	if len(ratesPercent) == 0 {
		return nil, ErrEmptyInput
	}
	factors := make([]float64, len(ratesPercent))
	for i, r := range ratesPercent {
		if r <= -100 {
			return nil, ErrInvalidReturnRate
		}
		factors[i] = 1 + r/100
	}
	return factors, nil
}

// GrowthSummary holds the compounded growth of a series of percentage
// returns: the geometric mean growth factor and its percentage form.
type GrowthSummary struct {
	MeanGrowthFactor  float64
	MeanReturnPercent float64
	Periods           int
}

// GeometricMeanReturn summarizes percentage return rates by the geometric
// mean of their growth factors, the measure of true compounded growth.
func GeometricMeanReturn(ratesPercent []float64) (GrowthSummary, error) {
	factors, err := GrowthFactors(ratesPercent)
	if err != nil {
		return GrowthSummary{}, err
	}
	gm, err := GeometricMean(factors)
	if err != nil {
		return GrowthSummary{}, err
	}
	return GrowthSummary{
		MeanGrowthFactor:  gm,
		MeanReturnPercent: (gm - 1) * 100,
		Periods:           len(ratesPercent),
	}, nil
}
