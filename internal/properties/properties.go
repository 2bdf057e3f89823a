package properties

import (
	"os"
	"strconv"
	"time"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

// CompositeAsset is the file name (under data/composites) of the cloud-free
// Sentinel-2 composite used as the predictor stack.
func CompositeAsset() string {
	if v := os.Getenv("COMPOSITE_ASSET"); v != "" {
		return v
	}
	return "composite.tif"
}

// GediAsset is the file name (under data/gedi) of the GEDI L2A shot table.
func GediAsset() string {
	if v := os.Getenv("GEDI_ASSET"); v != "" {
		return v
	}
	return "gedi_l2a_shots.csv"
}

// RoiAsset is the file name (under data/geojsons) of the region-of-interest
// polygon.
func RoiAsset() string {
	if v := os.Getenv("ROI_ASSET"); v != "" {
		return v
	}
	return "roi.geojson"
}

func OutputPath() string {
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		return v
	}
	return RootPath() + "/data/result"
}

// GediWindowStart and GediWindowEnd bound the six-month GEDI acquisition
// window. The start is inclusive, the end exclusive.
func GediWindowStart() time.Time {
	return envDate("GEDI_WINDOW_START", time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC))
}

func GediWindowEnd() time.Time {
	return envDate("GEDI_WINDOW_END", time.Date(2022, 10, 1, 0, 0, 0, 0, time.UTC))
}

// TargetEPSG is the projected coordinate system every exported raster must be
// expressed in. The composite is required to already carry this system.
func TargetEPSG() int {
	return envInt("TARGET_EPSG", 32722)
}

// MaxExportPixels caps the size of the prediction raster. Exports above the
// ceiling are rejected before any byte is written.
func MaxExportPixels() int {
	return envInt("MAX_EXPORT_PIXELS", 100_000_000)
}

func WorkerPoolSize() int {
	return envInt("WORKER_POOL_SIZE", 8)
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDate(key string, fallback time.Time) time.Time {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fallback
	}
	return t
}
