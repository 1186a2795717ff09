package probability

import (
	"errors"
	"math"
	"math/rand"
)

// Experiment estimates an event probability empirically: it draws repeated
// Bernoulli samples at a theoretical probability and reports how close the
// observed success ratio lands. The seed makes runs reproducible.
type Experiment struct {
	theoretical float64
	trials      int
	rng         *rand.Rand
}

// NewExperiment configures a sampling experiment over the given theoretical
// probability.
func NewExperiment(theoretical float64, trials int, seed int64) (*Experiment, error) {
	if theoretical < 0 || theoretical > 1 {
		return nil, errors.New("probability: theoretical probability must be in [0,1]")
	}
	if trials <= 0 {
		return nil, errors.New("probability: trials must be positive")
	}
	return &Experiment{
		theoretical: theoretical,
		trials:      trials,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

// ExperimentResult compares an empirical estimate against the theoretical
// probability it was sampled from.
type ExperimentResult struct {
	Trials      int     `json:"trials"`
	Successes   int     `json:"successes"`
	Theoretical float64 `json:"theoretical"`
	Empirical   float64 `json:"empirical"`
	AbsError    float64 `json:"abs_error"`
}

// Run draws the configured number of samples and returns the comparison.
func (e *Experiment) Run() ExperimentResult {
	successes := 0
	for i := 0; i < e.trials; i++ {
		if e.rng.Float64() < e.theoretical {
			successes++
		}
	}
	empirical := float64(successes) / float64(e.trials)
	return ExperimentResult{
		Trials:      e.trials,
		Successes:   successes,
		Theoretical: e.theoretical,
		Empirical:   empirical,
		AbsError:    math.Abs(empirical - e.theoretical),
	}
}
