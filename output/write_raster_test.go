package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckExportSizeWithinCeiling(t *testing.T) {
	assert.NoError(t, CheckExportSize(1000, 1000, 1_000_000))
	assert.NoError(t, CheckExportSize(100, 100, 1_000_000))
}

func TestCheckExportSizeRejectsOversizedRaster(t *testing.T) {
	err := CheckExportSize(1001, 1000, 1_000_000)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ceiling")
}

func TestCheckExportSizeRejectsDegenerateDimensions(t *testing.T) {
	assert.Error(t, CheckExportSize(0, 100, 1_000_000))
	assert.Error(t, CheckExportSize(100, -1, 1_000_000))
}

func TestCheckExportSizeZeroCeilingDisablesCheck(t *testing.T) {
	assert.NoError(t, CheckExportSize(100_000, 100_000, 0))
}
