package probability

import (
	"errors"

	"gonum.org/v1/gonum/stat/distuv"
)

// TrialRun records one batch of repeated Bernoulli trials.
type TrialRun struct {
	Successes int `json:"successes"`
	Trials    int `json:"trials"`
}

// SuccessRatio pools trial runs into an empirical success probability.
func SuccessRatio(runs []TrialRun) (float64, error) {
	if len(runs) == 0 {
		return 0, ErrEmptyInput
	}
	var successes, trials int
	for _, r := range runs {
		if r.Trials < 0 || r.Successes < 0 || r.Successes > r.Trials {
			return 0, errors.New("probability: malformed trial run")
		}
		successes += r.Successes
		trials += r.Trials
	}
	if trials == 0 {
		return 0, ErrEmptyInput
	}
	return float64(successes) / float64(trials), nil
}

// BinomialPMF returns P(exactly k successes in n trials) for success
// probability p.
func BinomialPMF(n, k int, p float64) (float64, error) {
	if n < 0 || k < 0 || k > n {
		return 0, errors.New("probability: require 0 <= k <= n")
	}
	if p < 0 || p > 1 {
		return 0, errors.New("probability: p must be in [0,1]")
	}
	b := distuv.Binomial{N: float64(n), P: p}
	return b.Prob(float64(k)), nil
}
