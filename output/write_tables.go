package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/forest-guardian/canopy-height-poc/internal/dataset"
	"github.com/forest-guardian/canopy-height-poc/internal/ml"
	"github.com/gocarina/gocsv"
)

// WriteSamplesCSV writes a sample table (training or testing) to path.
func WriteSamplesCSV(path string, samples []dataset.Sample) error {
	file, err := createArtifact(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&samples, file); err != nil {
		return fmt.Errorf("failed to write sample table %s: %w", path, err)
	}
	return nil
}

// WriteEvaluationCSV writes the observed-versus-predicted pairs of the
// held-out set.
func WriteEvaluationCSV(path string, pairs []ml.PairedSample) error {
	file, err := createArtifact(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&pairs, file); err != nil {
		return fmt.Errorf("failed to write evaluation table %s: %w", path, err)
	}
	return nil
}

// WriteFeatureImportancesCSV writes the per-band importance scores reported
// by the fitted forest.
func WriteFeatureImportancesCSV(path string, bands []string, importances []float64) error {
	type importanceRow struct {
		Band       string  `csv:"band"`
		Importance float64 `csv:"importance"`
	}
	rows := make([]importanceRow, len(bands))
	for i, band := range bands {
		rows[i] = importanceRow{Band: band, Importance: importances[i]}
	}

	file, err := createArtifact(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write importance table %s: %w", path, err)
	}
	return nil
}

func createArtifact(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output folder for %s: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, nil
}
