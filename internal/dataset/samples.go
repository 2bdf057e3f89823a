package dataset

import "math"

// Sample joins one aggregated lidar cell with the predictor values extracted
// from the composite at the cell centre. It is the row format of the
// exported training and testing tables; NaN serializes as "NaN" and is the
// missing-value marker for predictors that had no data at the point.
type Sample struct {
	ID        int64   `csv:"id"`
	Col       int     `csv:"col"`
	Row       int     `csv:"row"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	B02       float64 `csv:"b02"`
	B03       float64 `csv:"b03"`
	B04       float64 `csv:"b04"`
	B05       float64 `csv:"b05"`
	B06       float64 `csv:"b06"`
	B08       float64 `csv:"b08"`
	B11       float64 `csv:"b11"`
	B12       float64 `csv:"b12"`
	NDVI      float64 `csv:"ndvi"`
	NBR       float64 `csv:"nbr"`
	NDMI      float64 `csv:"ndmi"`
	RH95      float64 `csv:"rh95"`
	Shots     int     `csv:"shots"`
}

// Features returns the predictor vector in sentinel.FeatureBands order.
func (s Sample) Features() []float64 {
	return []float64{
		s.B02, s.B03, s.B04, s.B05, s.B06, s.B08, s.B11, s.B12,
		s.NDVI, s.NBR, s.NDMI,
	}
}

func (s *Sample) setFeatures(features []float64) {
	s.B02, s.B03, s.B04, s.B05 = features[0], features[1], features[2], features[3]
	s.B06, s.B08, s.B11, s.B12 = features[4], features[5], features[6], features[7]
	s.NDVI, s.NBR, s.NDMI = features[8], features[9], features[10]
}

func (s *Sample) setMissingFeatures() {
	nan := math.NaN()
	s.setFeatures([]float64{nan, nan, nan, nan, nan, nan, nan, nan, nan, nan, nan})
}

// HasTarget reports whether the sample carries an observed height. Samples
// without one never reach the model.
func (s Sample) HasTarget() bool {
	return !math.IsNaN(s.RH95)
}
