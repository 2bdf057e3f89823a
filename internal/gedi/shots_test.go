package gedi

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeShotTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gedi_l2a_shots.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadShots(t *testing.T) {
	path := writeShotTable(t, `shot_number,rh95,quality_flag,degrade_flag,lat_lowestmode,lon_lowestmode,acquired
95230200300254611,23.91,1,0,-20.1234,-51.4321,2022-05-10T13:45:00Z
95230200300254612,4.05,0,1,-20.2000,-51.4000,2022-06-01T02:10:30Z
`)

	shots, err := LoadShots(path)
	require.NoError(t, err)
	require.Len(t, shots, 2)

	assert.Equal(t, "95230200300254611", shots[0].ShotNumber)
	assert.Equal(t, 23.91, shots[0].RH95)
	assert.Equal(t, 1, shots[0].QualityFlag)
	assert.Equal(t, 0, shots[0].DegradeFlag)
	assert.Equal(t, time.Date(2022, 5, 10, 13, 45, 0, 0, time.UTC), shots[0].AcquiredAt)
}

func TestLoadShotsMissingFileIsFatal(t *testing.T) {
	_, err := LoadShots(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestLoadShotsBadTimestampIsFatal(t *testing.T) {
	path := writeShotTable(t, `shot_number,rh95,quality_flag,degrade_flag,lat_lowestmode,lon_lowestmode,acquired
1,10.0,1,0,-20.0,-51.0,yesterday
`)

	_, err := LoadShots(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid acquisition time")
}
