package gedi

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testROI = orb.MultiPolygon{{{{-52, -21}, {-50, -21}, {-50, -19}, {-52, -19}, {-52, -21}}}}

func testWindow() (time.Time, time.Time) {
	return time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC)
}

func makeShot(quality, degrade int, acquired time.Time, lon, lat float64) Shot {
	return Shot{
		ShotNumber:  "shot",
		RH95:        18.5,
		QualityFlag: quality,
		DegradeFlag: degrade,
		Longitude:   lon,
		Latitude:    lat,
		AcquiredAt:  acquired,
	}
}

func TestFilterShotsKeepsOnlyGoodShots(t *testing.T) {
	start, end := testWindow()
	inside := time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)

	shots := []Shot{
		makeShot(1, 0, inside, -51, -20),          // good
		makeShot(0, 0, inside, -51, -20),          // bad quality
		makeShot(1, 1, inside, -51, -20),          // degraded
		makeShot(1, 0, inside, -40, -20),          // outside ROI
		makeShot(1, 0, start.Add(-time.Hour), -51, -20), // before window
		makeShot(1, 0, end, -51, -20),             // window end is exclusive
	}

	filtered := FilterShots(shots, testROI, start, end)
	require.Len(t, filtered, 1)
	for _, shot := range filtered {
		assert.Equal(t, 1, shot.QualityFlag)
		assert.Equal(t, 0, shot.DegradeFlag)
		assert.False(t, shot.AcquiredAt.Before(start))
		assert.True(t, shot.AcquiredAt.Before(end))
	}
}

func TestFilterShotsWindowStartIsInclusive(t *testing.T) {
	start, end := testWindow()
	shots := []Shot{makeShot(1, 0, start, -51, -20)}
	assert.Len(t, FilterShots(shots, testROI, start, end), 1)
}

func TestFilterShotsIsIdempotent(t *testing.T) {
	start, end := testWindow()
	inside := time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC)
	shots := []Shot{
		makeShot(1, 0, inside, -51, -20),
		makeShot(0, 1, inside, -51, -20),
		makeShot(1, 0, inside, -51.5, -19.5),
	}

	once := FilterShots(shots, testROI, start, end)
	twice := FilterShots(once, testROI, start, end)
	assert.Equal(t, once, twice)
}

func TestFilterShotsEmptyInput(t *testing.T) {
	start, end := testWindow()
	assert.Empty(t, FilterShots(nil, testROI, start, end))
}
