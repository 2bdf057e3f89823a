package gedi

import (
	"errors"
	"time"

	"github.com/forest-guardian/canopy-height-poc/internal/sentinel"
	"github.com/paulmach/orb"
)

// ErrNoShots marks a degenerate quality-filter result: the shot table was
// readable but nothing in it is usable, which is a different failure from
// a missing or corrupt asset.
var ErrNoShots = errors.New("no GEDI shots passed the quality filter")

// FilterShots keeps only footprints that are usable for training: quality
// flag 1, degrade flag 0, acquired inside [windowStart, windowEnd) and
// located inside the region of interest. Shots that pass keep only the
// fields the rest of the pipeline reads (rh95 and its footprint
// coordinates); aggregation never looks at the flags again.
//
// The filter is idempotent: every retained shot still satisfies the
// predicate, so a second application returns the same set.
func FilterShots(shots []Shot, roi orb.MultiPolygon, windowStart, windowEnd time.Time) []Shot {
	filtered := make([]Shot, 0, len(shots))
	for _, shot := range shots {
		if shot.QualityFlag != 1 || shot.DegradeFlag != 0 {
			continue
		}
		if shot.AcquiredAt.Before(windowStart) || !shot.AcquiredAt.Before(windowEnd) {
			continue
		}
		if !sentinel.RoiContains(roi, shot.Longitude, shot.Latitude) {
			continue
		}
		filtered = append(filtered, shot)
	}
	return filtered
}
