package probability

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one class interval of a frequency distribution.
type Bin struct {
	Interval    string  `json:"interval"` // "low - high" with truncated bounds
	Low         float64 `json:"low"`
	High        float64 `json:"high"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
	Cumulative  float64 `json:"cumulative_probability"`
}

// FrequencyDistribution is a probability frequency distribution: equal-width
// class intervals with per-bin and cumulative probabilities.
type FrequencyDistribution struct {
	Bins  []Bin `json:"bins"`
	Total int   `json:"total"`
}

// NewFrequencyDistribution bins values into numBins equal-width intervals.
// The highest value is counted in the last bin, matching the usual histogram
// convention.
func NewFrequencyDistribution(values []float64, numBins int) (*FrequencyDistribution, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	if numBins < 1 {
		return nil, errors.New("probability: need at least one bin")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	min, max := sorted[0], sorted[len(sorted)-1]
	if min == max {
		// Degenerate series: a single interval holds everything.
		return &FrequencyDistribution{
			Total: len(values),
			Bins: []Bin{{
				Interval:    intervalLabel(min, max),
				Low:         min,
				High:        max,
				Count:       len(values),
				Probability: 1,
				Cumulative:  1,
			}},
		}, nil
	}

	dividers := make([]float64, numBins+1)
	floats.Span(dividers, min, max)
	// stat.Histogram treats bins as half-open; nudge the top divider so the
	// maximum lands in the final bin instead of panicking.
	dividers[numBins] = math.Nextafter(max, math.MaxFloat64)

	counts := stat.Histogram(nil, dividers, sorted, nil)

	total := float64(len(values))
	dist := &FrequencyDistribution{Total: len(values), Bins: make([]Bin, numBins)}
	var cumulative float64
	for i := 0; i < numBins; i++ {
		p := counts[i] / total
		cumulative += p
		low := dividers[i]
		high := min + (max-min)*float64(i+1)/float64(numBins)
		dist.Bins[i] = Bin{
			Interval:    intervalLabel(low, high),
			Low:         low,
			High:        high,
			Count:       int(counts[i]),
			Probability: p,
			Cumulative:  cumulative,
		}
	}
	return dist, nil
}

// intervalLabel renders a class interval the way the reports print it,
// with truncated integer bounds.
func intervalLabel(low, high float64) string {
	return fmt.Sprintf("%d - %d", int(low), int(high))
}

// HighRiskIntervals returns the bins whose probability meets the threshold.
func (d *FrequencyDistribution) HighRiskIntervals(threshold float64) []Bin {
	var out []Bin
	for _, b := range d.Bins {
		if b.Probability >= threshold {
			out = append(out, b)
		}
	}
	return out
}

// MaxInterval returns the bin with the highest probability (the first such
// bin on ties).
func (d *FrequencyDistribution) MaxInterval() Bin {
	best := d.Bins[0]
	for _, b := range d.Bins[1:] {
		if b.Probability > best.Probability {
			best = b
		}
	}
	return best
}

// CoverageInterval returns the first bin at which cumulative probability
// reaches the requested coverage.
func (d *FrequencyDistribution) CoverageInterval(coverage float64) (Bin, error) {
	for _, b := range d.Bins {
		if b.Cumulative >= coverage {
			return b, nil
		}
	}
	return Bin{}, fmt.Errorf("probability: no interval reaches coverage %v", coverage)
}
