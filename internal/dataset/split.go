package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// SplitSeed fixes the pseudo-random train/test assignment. With the same
// samples and the same seed, the split is byte-for-byte identical across
// runs.
const SplitSeed int64 = 42

// TrainFraction is the expected share of samples assigned to training. The
// assignment draws independently per sample, so the realized ratio is
// approximate.
const TrainFraction = 0.7

// ErrNoSamples is returned when the null-target filter leaves nothing to
// train on. It is a distinct condition from any I/O failure: the inputs
// were readable but degenerate, and fitting a model on zero rows is
// undefined.
var ErrNoSamples = errors.New("no samples with a non-null target remain after filtering")

// Split removes samples without an observed height, then assigns each
// survivor a uniform draw in [0,1) from a generator seeded with seed:
// draws below trainFraction go to training, the rest to testing. Samples
// are put in ascending ID order first so the draw sequence, and therefore
// the split, is reproducible.
func Split(samples []Sample, seed int64, trainFraction float64) (train, test []Sample, err error) {
	if trainFraction <= 0 || trainFraction >= 1 {
		return nil, nil, fmt.Errorf("train fraction %v outside (0,1)", trainFraction)
	}

	withTarget := make([]Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.HasTarget() {
			withTarget = append(withTarget, sample)
		}
	}
	if len(withTarget) == 0 {
		return nil, nil, fmt.Errorf("%w (started with %d joined samples)", ErrNoSamples, len(samples))
	}

	sort.Slice(withTarget, func(i, j int) bool { return withTarget[i].ID < withTarget[j].ID })

	rng := rand.New(rand.NewSource(seed))
	for _, sample := range withTarget {
		if rng.Float64() < trainFraction {
			train = append(train, sample)
		} else {
			test = append(test, sample)
		}
	}
	return train, test, nil
}
