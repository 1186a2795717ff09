package probability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperimentBoundaryProbabilities(t *testing.T) {
	t.Parallel()

	never, err := NewExperiment(0, 500, 1)
	require.NoError(t, err)
	res := never.Run()
	assert.Equal(t, 0, res.Successes)
	assert.Equal(t, 0.0, res.Empirical)
	assert.Equal(t, 0.0, res.AbsError)

	always, err := NewExperiment(1, 500, 1)
	require.NoError(t, err)
	res = always.Run()
	assert.Equal(t, 500, res.Successes)
	assert.Equal(t, 1.0, res.Empirical)
	assert.Equal(t, 0.0, res.AbsError)
}

func TestExperimentSeedReproducibility(t *testing.T) {
	t.Parallel()

	first, err := NewExperiment(0.35, 1000, 42)
	require.NoError(t, err)
	second, err := NewExperiment(0.35, 1000, 42)
	require.NoError(t, err)

	assert.Equal(t, first.Run(), second.Run())
}

func TestExperimentConvergesOnTheoretical(t *testing.T) {
	t.Parallel()

	exp, err := NewExperiment(0.5, 100000, 7)
	require.NoError(t, err)
	res := exp.Run()

	assert.Equal(t, 100000, res.Trials)
	assert.Equal(t, float64(res.Successes)/float64(res.Trials), res.Empirical)
	// 100k samples at p=0.5 has a standard error of ~0.0016; an empirical
	// estimate more than 0.05 off means the sampler is broken.
	assert.InDelta(t, 0.5, res.Empirical, 0.05)
	assert.Less(t, res.AbsError, 0.05)
}

func TestExperimentValidation(t *testing.T) {
	t.Parallel()

	_, err := NewExperiment(-0.1, 100, 1)
	assert.Error(t, err)
	_, err = NewExperiment(1.1, 100, 1)
	assert.Error(t, err)
	_, err = NewExperiment(0.5, 0, 1)
	assert.Error(t, err)
	_, err = NewExperiment(0.5, -10, 1)
	assert.Error(t, err)
}
