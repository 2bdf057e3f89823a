package gedi

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

// Shot is one GEDI L2A footprint as exported from the mission archive. The
// rh95 percentile height (the height below which 95% of the returned energy
// falls) is the canopy-height proxy regressed against the optical bands.
type Shot struct {
	ShotNumber  string  `csv:"shot_number"`
	RH95        float64 `csv:"rh95"`
	QualityFlag int     `csv:"quality_flag"`
	DegradeFlag int     `csv:"degrade_flag"`
	Latitude    float64 `csv:"lat_lowestmode"`
	Longitude   float64 `csv:"lon_lowestmode"`
	Acquired    string  `csv:"acquired"`

	AcquiredAt time.Time `csv:"-"`
}

// LoadShots reads the GEDI shot table. A missing file or an unparseable
// acquisition timestamp is a fatal asset error reported before any
// computation starts.
func LoadShots(path string) ([]Shot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GEDI shot table %s: %w", path, err)
	}
	defer file.Close()

	var rows []*Shot
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse GEDI shot table %s: %w", path, err)
	}

	shots := make([]Shot, 0, len(rows))
	for i, row := range rows {
		acquired, err := time.Parse(time.RFC3339, row.Acquired)
		if err != nil {
			return nil, fmt.Errorf("shot table row %d has invalid acquisition time %q: %w", i+1, row.Acquired, err)
		}
		row.AcquiredAt = acquired
		shots = append(shots, *row)
	}
	return shots, nil
}
