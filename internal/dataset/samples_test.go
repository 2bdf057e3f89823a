package dataset

import (
	"math"
	"testing"

	"github.com/forest-guardian/canopy-height-poc/internal/sentinel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleFeaturesMatchBandLayout(t *testing.T) {
	sample := Sample{
		B02: 1, B03: 2, B04: 3, B05: 4, B06: 5, B08: 6, B11: 7, B12: 8,
		NDVI: 9, NBR: 10, NDMI: 11,
	}

	features := sample.Features()
	require.Len(t, features, len(sentinel.FeatureBands()))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, features)
}

func TestSampleFeatureRoundTrip(t *testing.T) {
	var sample Sample
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	sample.setFeatures(want)
	assert.Equal(t, want, sample.Features())
}

func TestSampleMissingFeatureMarkers(t *testing.T) {
	sample := Sample{RH95: 20}
	sample.setMissingFeatures()

	for i, v := range sample.Features() {
		assert.True(t, math.IsNaN(v), "feature %d should be the missing marker", i)
	}
	assert.True(t, sample.HasTarget(), "missing predictors must not invalidate the target")
}

func TestSampleHasTarget(t *testing.T) {
	assert.True(t, Sample{RH95: 0}.HasTarget())
	assert.False(t, Sample{RH95: math.NaN()}.HasTarget())
}
