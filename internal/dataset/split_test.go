package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSamples(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{ID: int64(i), RH95: float64(i % 40)}
	}
	return samples
}

func TestSplitIsReproducible(t *testing.T) {
	samples := makeSamples(500)

	train1, test1, err := Split(samples, SplitSeed, TrainFraction)
	require.NoError(t, err)
	train2, test2, err := Split(samples, SplitSeed, TrainFraction)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
}

func TestSplitIsOrderIndependent(t *testing.T) {
	samples := makeSamples(200)
	shuffled := make([]Sample, len(samples))
	for i, sample := range samples {
		shuffled[(i*7)%len(samples)] = sample
	}

	train1, test1, err := Split(samples, SplitSeed, TrainFraction)
	require.NoError(t, err)
	train2, test2, err := Split(shuffled, SplitSeed, TrainFraction)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
}

func TestSplitDropsNullTargets(t *testing.T) {
	samples := makeSamples(100)
	samples[3].RH95 = math.NaN()
	samples[77].RH95 = math.NaN()

	train, test, err := Split(samples, SplitSeed, TrainFraction)
	require.NoError(t, err)
	assert.Equal(t, 98, len(train)+len(test))
	for _, sample := range append(append([]Sample{}, train...), test...) {
		assert.True(t, sample.HasTarget())
	}
}

func TestSplitRatioIsApproximate(t *testing.T) {
	train, test, err := Split(makeSamples(2000), SplitSeed, TrainFraction)
	require.NoError(t, err)

	ratio := float64(len(train)) / float64(len(train)+len(test))
	assert.InDelta(t, TrainFraction, ratio, 0.05)
	assert.NotEmpty(t, test)
}

func TestSplitAllNullTargetsIsDegenerate(t *testing.T) {
	samples := makeSamples(10)
	for i := range samples {
		samples[i].RH95 = math.NaN()
	}

	_, _, err := Split(samples, SplitSeed, TrainFraction)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestSplitEmptyInputIsDegenerate(t *testing.T) {
	_, _, err := Split(nil, SplitSeed, TrainFraction)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestSplitRejectsBadFraction(t *testing.T) {
	samples := makeSamples(10)
	_, _, err := Split(samples, SplitSeed, 0)
	assert.Error(t, err)
	_, _, err = Split(samples, SplitSeed, 1)
	assert.Error(t, err)
}
