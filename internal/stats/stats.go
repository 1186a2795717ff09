// Package stats provides the central-tendency and descriptive measures used
// across the analysis engines. Everything operates on plain float64 slices;
// gonum/stat does the numeric work.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptyInput is returned when a measure is requested over no data.
	ErrEmptyInput = errors.New("stats: empty input")
	// ErrLengthMismatch is returned when values and weights differ in length.
	ErrLengthMismatch = errors.New("stats: values and weights length mismatch")
	// ErrZeroWeightSum is returned when weights sum to zero and cannot be normalized.
	ErrZeroWeightSum = errors.New("stats: weight sum is zero, cannot normalize")
	// ErrNonPositiveValue is returned when a log-based mean sees a value <= 0.
	ErrNonPositiveValue = errors.New("stats: values must be positive")
)

// Mean returns the arithmetic mean of x.
func Mean(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.Mean(x, nil), nil
}

// WeightedMean returns the weighted arithmetic mean of x. Weights are
// normalized to sum to one before use; a zero weight sum is an error.
func WeightedMean(x, weights []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	if len(x) != len(weights) {
		return 0, ErrLengthMismatch
	}
	w, err := NormalizeWeights(weights)
	if err != nil {
		return 0, err
	}
	return stat.Mean(x, w), nil
}

// GeometricMean returns the geometric mean of x. All values must be positive.
func GeometricMean(x []float64) (float64, error) {
	return WeightedGeometricMean(x, nil)
}

// WeightedGeometricMean returns exp of the weighted mean of log(x).
// A nil weights slice means equal weights.
func WeightedGeometricMean(x, weights []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	if weights != nil && len(x) != len(weights) {
		return 0, ErrLengthMismatch
	}
	for _, v := range x {
		if v <= 0 {
			return 0, ErrNonPositiveValue
		}
	}
	if weights == nil {
		return stat.GeometricMean(x, nil), nil
	}
	w, err := NormalizeWeights(weights)
	if err != nil {
		return 0, err
	}
	return stat.GeometricMean(x, w), nil
}

// HarmonicMean returns the harmonic mean of x. All values must be positive;
// the harmonic mean is undefined at zero.
func HarmonicMean(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	for _, v := range x {
		if v <= 0 {
			return 0, ErrNonPositiveValue
		}
	}
	return stat.HarmonicMean(x, nil), nil
}

// Median returns the middle value of x (mean of the two middle values for
// even-length input).
func Median(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	s := sortedCopy(x)
	n := len(s)
	if n%2 == 1 {
		return s[n/2], nil
	}
	return (s[n/2-1] + s[n/2]) / 2, nil
}

// Mode returns the most frequent value in x.
func Mode(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	s := sortedCopy(x)
	mode, _ := stat.Mode(s, nil)
	return mode, nil
}

// Variance returns the unbiased sample variance of x.
func Variance(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.Variance(x, nil), nil
}

// StdDev returns the sample standard deviation of x.
func StdDev(x []float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.StdDev(x, nil), nil
}

// Percentile returns the p-th percentile of x, p in [0, 100], using the
// empirical cumulant (the same convention the rollup queries use).
func Percentile(x []float64, p float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	if p < 0 || p > 100 {
		return 0, errors.New("stats: percentile must be in [0, 100]")
	}
	s := sortedCopy(x)
	return stat.Quantile(p/100, stat.Empirical, s, nil), nil
}

// NormalizeWeights scales weights so they sum to one. Returns
// ErrZeroWeightSum when the sum is zero.
func NormalizeWeights(weights []float64) ([]float64, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyInput
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeightSum
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / sum
	}
	return out, nil
}

// Round4 rounds v to four decimal places, the precision probability
// results are reported at.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func sortedCopy(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}
