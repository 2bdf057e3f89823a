package ml

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// PairedSample is one held-out observation matched with its model
// prediction, exported as a row of the evaluation table.
type PairedSample struct {
	SampleID  int64   `csv:"id"`
	Observed  float64 `csv:"observed"`
	Predicted float64 `csv:"predicted"`
	Residual  float64 `csv:"residual"`
}

type Metrics struct {
	RMSE  float64
	MAE   float64
	Pairs int
}

// EvaluatePairs computes root-mean-square error and mean absolute error
// over the paired set. Pairing is the caller's job and must be complete: a
// pair carrying NaN on either side means a sample slipped through without a
// real observation or prediction, which is an error here rather than a row
// to skip quietly.
func EvaluatePairs(pairs []PairedSample) (Metrics, error) {
	if len(pairs) == 0 {
		return Metrics{}, fmt.Errorf("no pairs to evaluate")
	}

	absErr := make([]float64, len(pairs))
	sqErr := make([]float64, len(pairs))
	for i, pair := range pairs {
		if math.IsNaN(pair.Observed) || math.IsNaN(pair.Predicted) {
			return Metrics{}, fmt.Errorf("sample %d has an incomplete pair (observed=%v predicted=%v)", pair.SampleID, pair.Observed, pair.Predicted)
		}
		diff := pair.Predicted - pair.Observed
		absErr[i] = math.Abs(diff)
		sqErr[i] = diff * diff
	}

	return Metrics{
		RMSE:  math.Sqrt(stat.Mean(sqErr, nil)),
		MAE:   stat.Mean(absErr, nil),
		Pairs: len(pairs),
	}, nil
}
