package sentinel

import "math"

// SpectralBands lists the composite's bands in file order. The composite is
// a cloud-free Sentinel-2 L2A mosaic resampled to 10 m.
var SpectralBands = []string{"B02", "B03", "B04", "B05", "B06", "B08", "B11", "B12"}

// IndexBands are derived from the spectral bands and appended to them,
// forming the 11-band predictor stack.
var IndexBands = []string{"ndvi", "nbr", "ndmi"}

const (
	bandRed   = 2 // B04
	bandNIR   = 5 // B08
	bandSWIR1 = 6 // B11
	bandSWIR2 = 7 // B12
)

// FeatureBands returns the full predictor band list, spectral bands first,
// index bands after, matching the layout of every feature vector in the
// pipeline.
func FeatureBands() []string {
	features := make([]string, 0, len(SpectralBands)+len(IndexBands))
	features = append(features, SpectralBands...)
	features = append(features, IndexBands...)
	return features
}

// NormalizedDifference computes (a-b)/(a+b). A zero denominator, or any NaN
// input, yields NaN: NaN is the pipeline's no-data marker and propagates
// through all later arithmetic instead of crashing or producing a fake
// reflectance. File writers translate it to the declared nodata value at the
// boundary.
func NormalizedDifference(a, b float64) float64 {
	denominator := a + b
	if denominator == 0 || math.IsNaN(denominator) {
		return math.NaN()
	}
	return (a - b) / denominator
}

// ExtendFeatures takes the 8 spectral values in SpectralBands order and
// returns the 11-element feature vector with ndvi, nbr and ndmi appended.
func ExtendFeatures(spectral []float64) []float64 {
	features := make([]float64, 0, len(spectral)+len(IndexBands))
	features = append(features, spectral...)
	features = append(features,
		NormalizedDifference(spectral[bandNIR], spectral[bandRed]),   // ndvi
		NormalizedDifference(spectral[bandNIR], spectral[bandSWIR1]), // nbr
		NormalizedDifference(spectral[bandNIR], spectral[bandSWIR2]), // ndmi
	)
	return features
}
