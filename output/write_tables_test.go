package output

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forest-guardian/canopy-height-poc/internal/dataset"
	"github.com/forest-guardian/canopy-height-poc/internal/ml"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSamplesCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result", "training_samples.csv")
	samples := []dataset.Sample{
		{ID: 0, Col: 1, Row: 2, RH95: 21.5, B02: 0.02, NDVI: 0.8, Shots: 4},
		{ID: 1, Col: 3, Row: 2, RH95: 12.25, B02: math.NaN(), Shots: 1},
	}

	require.NoError(t, WriteSamplesCSV(path, samples))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var got []*dataset.Sample
	require.NoError(t, gocsv.UnmarshalFile(file, &got))
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, 21.5, got[0].RH95)
	assert.True(t, math.IsNaN(got[1].B02), "missing-value marker must survive the round trip")
}

func TestWriteEvaluationCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluation.csv")
	pairs := []ml.PairedSample{
		{SampleID: 7, Observed: 10, Predicted: 12, Residual: 2},
	}

	require.NoError(t, WriteEvaluationCSV(path, pairs))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,observed,predicted,residual", lines[0])
}

func TestWriteFeatureImportancesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feature_importances.csv")
	require.NoError(t, WriteFeatureImportancesCSV(path, []string{"ndvi", "nbr"}, []float64{0.7, 0.3}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ndvi,0.7")
}
