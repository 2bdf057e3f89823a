package properties

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsWithoutEnvironment(t *testing.T) {
	for _, key := range []string{"COMPOSITE_ASSET", "GEDI_ASSET", "TARGET_EPSG", "MAX_EXPORT_PIXELS", "GEDI_WINDOW_START", "GEDI_WINDOW_END"} {
		t.Setenv(key, "")
	}

	assert.Equal(t, "composite.tif", CompositeAsset())
	assert.Equal(t, "gedi_l2a_shots.csv", GediAsset())
	assert.Equal(t, 32722, TargetEPSG())
	assert.Equal(t, 100_000_000, MaxExportPixels())
	assert.True(t, GediWindowStart().Before(GediWindowEnd()))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TARGET_EPSG", "32633")
	t.Setenv("GEDI_WINDOW_START", "2023-01-01")
	t.Setenv("MAX_EXPORT_PIXELS", "not-a-number")

	assert.Equal(t, 32633, TargetEPSG())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), GediWindowStart())
	assert.Equal(t, 100_000_000, MaxExportPixels(), "unparseable values fall back to the default")
}
