package gedi

import (
	"fmt"
	"math"
	"sort"
)

// GridCellSize is the aggregation resolution in projected units (metres).
// GEDI footprints are nominally 25 m across, so one cell holds the shots of
// one footprint-sized patch.
const GridCellSize = 25.0

// Grid describes the aggregation lattice: anchored at the composite's
// top-left corner so cells nest cleanly inside the 10 m predictor pixels.
type Grid struct {
	OriginX  float64
	OriginY  float64
	CellSize float64
}

func (g Grid) CellIndex(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.OriginX) / g.CellSize))
	row = int(math.Floor((g.OriginY - y) / g.CellSize))
	return col, row
}

func (g Grid) CellCenter(col, row int) (x, y float64) {
	x = g.OriginX + (float64(col)+0.5)*g.CellSize
	y = g.OriginY - (float64(row)+0.5)*g.CellSize
	return x, y
}

// Cell is one grid cell carrying the median rh95 of the shots that fell in
// it. Height is NaN when every contributing shot had a null rh95; such
// cells survive until the sample split drops null targets.
type Cell struct {
	Col    int
	Row    int
	X      float64
	Y      float64
	Height float64
	Shots  int
}

// Projector maps a WGS84 longitude/latitude into the grid's projected
// system. Keeping it a function value keeps this package independent of the
// raster backend.
type Projector func(lon, lat float64) (x, y float64, err error)

// AggregateShots bins the filtered footprints into grid cells and reduces
// each cell to its temporal median rh95. Cells come back sorted row-major
// so every later step iterates them in a reproducible order.
func AggregateShots(shots []Shot, grid Grid, project Projector) ([]Cell, error) {
	type binKey struct{ col, row int }
	bins := make(map[binKey][]float64)

	for _, shot := range shots {
		x, y, err := project(shot.Longitude, shot.Latitude)
		if err != nil {
			return nil, fmt.Errorf("failed to project shot %s: %w", shot.ShotNumber, err)
		}
		col, row := grid.CellIndex(x, y)
		bins[binKey{col, row}] = append(bins[binKey{col, row}], shot.RH95)
	}

	cells := make([]Cell, 0, len(bins))
	for key, heights := range bins {
		x, y := grid.CellCenter(key.col, key.row)
		cells = append(cells, Cell{
			Col:    key.col,
			Row:    key.row,
			X:      x,
			Y:      y,
			Height: median(heights),
			Shots:  len(heights),
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells, nil
}

func median(values []float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)
	mid := len(valid) / 2
	if len(valid)%2 == 1 {
		return valid[mid]
	}
	return (valid[mid-1] + valid[mid]) / 2
}
