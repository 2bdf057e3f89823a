package sentinel

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// LoadROI reads the region-of-interest polygon from a GeoJSON file. The
// first feature carrying a Polygon or MultiPolygon geometry wins; anything
// else is a configuration error surfaced before any computation starts.
func LoadROI(path string) (orb.MultiPolygon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROI %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ROI %s: %w", path, err)
	}

	for _, feat := range fc.Features {
		switch g := feat.Geometry.(type) {
		case orb.Polygon:
			return orb.MultiPolygon{g}, nil
		case orb.MultiPolygon:
			return g, nil
		}
	}
	return nil, fmt.Errorf("no polygon feature found in ROI %s", path)
}

// RoiContains reports whether the WGS84 point lies inside the region of
// interest.
func RoiContains(roi orb.MultiPolygon, lon, lat float64) bool {
	return planar.MultiPolygonContains(roi, orb.Point{lon, lat})
}

// RoiCentroid returns the polygon centroid, used only for operator-facing
// run summaries.
func RoiCentroid(roi orb.MultiPolygon) (lat, lon float64, err error) {
	centroid, area := planar.CentroidArea(roi)
	if area <= 0 {
		return 0, 0, errors.New("error getting centroid")
	}
	return centroid.Y(), centroid.X(), nil
}
