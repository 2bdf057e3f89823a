package dataset

import (
	"fmt"
	"sync"

	"github.com/forest-guardian/canopy-height-poc/internal/gedi"
	"github.com/forest-guardian/canopy-height-poc/internal/sentinel"
	"github.com/forest-guardian/canopy-height-poc/internal/utils"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
)

const joinChunkSize = 512

// BuildSamples extracts the 11 predictor bands at every aggregated lidar
// cell centre and returns one Sample per cell. The lookup is exact
// nearest-pixel: the cell centre is pushed through the composite's inverse
// geotransform and floored to the 10 m pixel containing it, so there is no
// interpolation and no tie to break.
//
// Cells are processed in fixed-size chunks on a worker pool; each chunk
// issues small windowed reads against the composite instead of holding the
// full raster in memory. A cell whose centre falls off the composite, or
// whose pixel holds nodata, still yields a Sample with NaN predictor
// markers — only a missing target removes a sample, and that happens in
// Split.
func BuildSamples(comp *sentinel.Composite, cells []gedi.Cell, poolSize int) ([]Sample, error) {
	if len(cells) == 0 {
		return nil, nil
	}

	samples := make([]Sample, len(cells))
	progressBar := progressbar.Default(int64(len(cells)), "Extracting predictors")

	type indexedChunk struct {
		start int
		cells []gedi.Cell
	}
	var chunks []indexedChunk
	offset := 0
	for _, chunk := range utils.Chunk(cells, joinChunkSize) {
		chunks = append(chunks, indexedChunk{offset, chunk})
		offset += len(chunk)
	}

	wp := workerpool.New(poolSize)
	var (
		mu             sync.Mutex
		errGlobal      error
		stopProcessing sync.Once
	)

	for _, c := range chunks {
		chunk := c
		wp.Submit(func() {
			for i, cell := range chunk.cells {
				sample, err := extractSample(comp, cell)
				if err != nil {
					stopProcessing.Do(func() {
						mu.Lock()
						errGlobal = err
						mu.Unlock()
					})
					return
				}
				sample.ID = int64(chunk.start + i)
				samples[chunk.start+i] = sample
			}
			mu.Lock()
			progressBar.Add(len(chunk.cells))
			mu.Unlock()
		})
	}
	wp.StopWait()
	progressBar.Finish()

	if errGlobal != nil {
		return nil, fmt.Errorf("error while extracting predictors: %w", errGlobal)
	}
	return samples, nil
}

func extractSample(comp *sentinel.Composite, cell gedi.Cell) (Sample, error) {
	sample := Sample{
		Col:   cell.Col,
		Row:   cell.Row,
		RH95:  cell.Height,
		Shots: cell.Shots,
	}

	lat, lon, err := comp.ToLatLon(cell.X, cell.Y)
	if err != nil {
		return Sample{}, fmt.Errorf("cell (%d,%d): %w", cell.Col, cell.Row, err)
	}
	sample.Latitude = lat
	sample.Longitude = lon

	col, row, ok := comp.PixelAt(cell.X, cell.Y)
	if !ok {
		sample.setMissingFeatures()
		return sample, nil
	}

	spectral, err := comp.ReadSpectralPixel(col, row)
	if err != nil {
		return Sample{}, fmt.Errorf("cell (%d,%d): %w", cell.Col, cell.Row, err)
	}
	sample.setFeatures(sentinel.ExtendFeatures(spectral))
	return sample, nil
}
