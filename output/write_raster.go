package output

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/canopy-height-poc/internal/ml"
	"github.com/forest-guardian/canopy-height-poc/internal/sentinel"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// NoDataValue is the nodata marker declared on exported rasters. Inside the
// pipeline no-data is NaN; the translation happens only here, at the file
// boundary.
const NoDataValue = -9999.0

const predictionBlockRows = 256

// CheckExportSize rejects rasters above the configured pixel ceiling. It
// runs before the output file is created, so an oversized export never
// leaves a partial file behind.
func CheckExportSize(width, height, maxPixels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if maxPixels > 0 && width*height > maxPixels {
		return fmt.Errorf("prediction raster has %d pixels, above the export ceiling of %d", width*height, maxPixels)
	}
	return nil
}

// WritePredictionRaster applies the fitted forest to every pixel of the
// composite and writes the resulting single-band height raster at the
// composite's grid (10 m, the target projected system). The image is
// processed in horizontal blocks: each block's spectral rows are read once,
// rows are predicted in parallel, and the block is written before the next
// one is touched.
func WritePredictionRaster(comp *sentinel.Composite, model *ml.RandomForestRegressor, path string, targetEPSG, maxPixels int) error {
	width, height := comp.Size()
	if err := CheckExportSize(width, height, maxPixels); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output folder for %s: %w", path, err)
	}

	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float64, width, height)
	if err != nil {
		return fmt.Errorf("failed to create prediction raster %s: %w", path, err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(comp.GeoTransform()); err != nil {
		return fmt.Errorf("failed to set geotransform: %w", err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(targetEPSG)
	if err != nil {
		return fmt.Errorf("invalid target EPSG %d: %w", targetEPSG, err)
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("failed to set spatial reference: %w", err)
	}

	band := ds.Bands()[0]
	if err := band.SetNoData(NoDataValue); err != nil {
		return fmt.Errorf("failed to set nodata value: %w", err)
	}

	progressBar := progressbar.Default(int64(height), "Predicting height raster")
	for row0 := 0; row0 < height; row0 += predictionBlockRows {
		nRows := predictionBlockRows
		if row0+nRows > height {
			nRows = height - row0
		}

		blocks, err := comp.ReadSpectralRows(row0, nRows)
		if err != nil {
			return err
		}

		out := make([]float64, width*nRows)
		g := new(errgroup.Group)
		g.SetLimit(runtime.NumCPU())
		for r := 0; r < nRows; r++ {
			g.Go(func() error {
				return predictRow(model, blocks, out, r, width)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("prediction failed in rows %d..%d: %w", row0, row0+nRows, err)
		}

		if err := band.Write(0, row0, out, width, nRows); err != nil {
			return fmt.Errorf("failed to write rows %d..%d: %w", row0, row0+nRows, err)
		}
		progressBar.Add(nRows)
	}
	progressBar.Finish()

	return nil
}

func predictRow(model *ml.RandomForestRegressor, blocks [][]float64, out []float64, row, width int) error {
	spectral := make([]float64, len(sentinel.SpectralBands))
	for col := 0; col < width; col++ {
		i := row*width + col
		allMissing := true
		for b := range spectral {
			spectral[b] = blocks[b][i]
			if !math.IsNaN(spectral[b]) {
				allMissing = false
			}
		}
		if allMissing {
			out[i] = NoDataValue
			continue
		}

		prediction, err := model.Predict(sentinel.ExtendFeatures(spectral))
		if err != nil {
			return err
		}
		if math.IsNaN(prediction) {
			prediction = NoDataValue
		}
		out[i] = prediction
	}
	return nil
}
