package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/forest-guardian/canopy-height-poc/internal/cache"
	"github.com/paulmach/orb"
	"golang.org/x/oauth2/clientcredentials"
)

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}

// EnsureCompositeFile guarantees the composite GeoTIFF exists at path.
// When it is already on disk nothing happens; otherwise the composite is
// downloaded from the processing API for the ROI and acquisition window and
// written out. Download failures are fatal configuration errors: the
// pipeline never starts without its predictor stack.
func EnsureCompositeFile(path string, roi orb.MultiPolygon, startDate, endDate time.Time) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content, err := requestComposite(roi, startDate, endDate)
	if err != nil {
		return fmt.Errorf("composite %s missing and download failed: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write downloaded composite: %w", err)
	}
	return nil
}

func requestComposite(roi orb.MultiPolygon, startDate, endDate time.Time) ([]byte, error) {
	imageCache := cache.NewFileCache[[]byte]("composite_cache")
	cacheKey := imageCache.GenerateKey("composite", startDate.Format(time.DateOnly), endDate.Format(time.DateOnly), roi.Bound())
	if content, ok := imageCache.Get(cacheKey); ok {
		return content, nil
	}

	startDateStr := startDate.Format(time.RFC3339)
	endDateStr := endDate.Format(time.RFC3339)

	bound := roi.Bound()
	widthPixels := calculatePixels(bound.Max[0]-bound.Min[0], 10)
	heightPixels := calculatePixels(bound.Max[1]-bound.Min[1], 10)
	// Clamp to allowed range (1-2500)
	if widthPixels > 2500 {
		widthPixels = 2500
	}
	if heightPixels > 2500 {
		heightPixels = 2500
	}

	evalscript := `
    //VERSION=3
    function setup() {
      return {
        input: ["B02", "B03", "B04", "B05", "B06", "B08", "B11", "B12"],
        output: {
          id: "default",
          bands: 8,
          sampleType: SampleType.FLOAT32,
        },
      }
    }

    function evaluatePixel(sample) {
      return [sample.B02, sample.B03, sample.B04, sample.B05, sample.B06, sample.B08, sample.B11, sample.B12];
    }
  `

	geometryGeojson, err := json.Marshal(map[string]interface{}{
		"type":        "MultiPolygon",
		"coordinates": roi,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export ROI to GeoJSON: %w", err)
	}
	var geojsonMap map[string]interface{}
	if err := json.Unmarshal(geometryGeojson, &geojsonMap); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": geojsonMap,
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": startDateStr,
							"to":   endDateStr,
						},
						"maxCloudCoverage": 20,
					},
					"type": "sentinel-2-l2a",
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
		"mosaicking": "mostRecent",
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	clientID := os.Getenv("COPERNICUS_CLIENT_ID")
	clientSecret := os.Getenv("COPERNICUS_CLIENT_SECRET")
	tokenURL := os.Getenv("COPERNICUS_TOKEN_URL")
	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := config.Client(context.Background())

	url := "https://sh.dataspace.copernicus.eu/api/v1/process"
	response, err := httpClient.Post(url, "application/json", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to request composite: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		return nil, fmt.Errorf("composite request returned status %d: %s", response.StatusCode, string(body))
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	if err := imageCache.Set(cacheKey, content); err != nil {
		fmt.Printf("Warning: failed to cache composite: %v\n", err)
	}
	return content, nil
}
