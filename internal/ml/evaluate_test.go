package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairUp(observed, predicted []float64) []PairedSample {
	pairs := make([]PairedSample, len(observed))
	for i := range observed {
		pairs[i] = PairedSample{
			SampleID:  int64(i),
			Observed:  observed[i],
			Predicted: predicted[i],
			Residual:  predicted[i] - observed[i],
		}
	}
	return pairs
}

func TestEvaluatePairsKnownValues(t *testing.T) {
	metrics, err := EvaluatePairs(pairUp(
		[]float64{10, 20, 30},
		[]float64{12, 18, 33},
	))
	require.NoError(t, err)

	assert.InDelta(t, 7.0/3.0, metrics.MAE, 1e-9)
	assert.InDelta(t, math.Sqrt(17.0/3.0), metrics.RMSE, 1e-9)
	assert.Equal(t, 3, metrics.Pairs)
}

func TestEvaluatePairsPerfectPrediction(t *testing.T) {
	metrics, err := EvaluatePairs(pairUp(
		[]float64{5, 10, 15},
		[]float64{5, 10, 15},
	))
	require.NoError(t, err)
	assert.Zero(t, metrics.MAE)
	assert.Zero(t, metrics.RMSE)
}

func TestRMSEIsAtLeastMAE(t *testing.T) {
	metrics, err := EvaluatePairs(pairUp(
		[]float64{3, 7, 11, 19, 25, 31},
		[]float64{4, 5, 14, 18, 29, 30},
	))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, metrics.RMSE, metrics.MAE)
	assert.GreaterOrEqual(t, metrics.MAE, 0.0)
}

func TestEvaluatePairsEmptySetErrors(t *testing.T) {
	_, err := EvaluatePairs(nil)
	assert.Error(t, err)
}

func TestEvaluatePairsIncompletePairErrors(t *testing.T) {
	pairs := pairUp([]float64{10, 20}, []float64{11, 19})
	pairs[1].Predicted = math.NaN()

	_, err := EvaluatePairs(pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete pair")
}
