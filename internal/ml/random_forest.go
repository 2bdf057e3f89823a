package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Forest hyperparameters. They are fixed for the workflow: changing them
// changes the published height product.
const (
	NumTrees          = 74
	MinLeafPopulation = 3
	BagFraction       = 1.0
	ForestSeed        = 123
)

// RandomForestRegressor averages an ensemble of variance-reduction
// regression trees. Each tree owns a generator seeded with Seed plus its
// tree index, so bootstrap draws and feature subsets are identical from run
// to run no matter how training is scheduled across goroutines.
type RandomForestRegressor struct {
	NumTrees     int
	MinLeaf      int
	BagFraction  float64
	Seed         int64
	FeatureNames []string

	trees       []*regressionTree
	importances []float64
}

func NewRandomForestRegressor(numTrees, minLeaf int, bagFraction float64, seed int64) *RandomForestRegressor {
	return &RandomForestRegressor{
		NumTrees:    numTrees,
		MinLeaf:     minLeaf,
		BagFraction: bagFraction,
		Seed:        seed,
	}
}

// Fit grows the forest on the training matrix. With BagFraction 1.0 every
// tree receives a bootstrap resample (with replacement) of the full
// training set; smaller fractions subsample accordingly.
func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64, featureNames []string) error {
	if len(X) == 0 {
		return fmt.Errorf("empty training data")
	}
	if len(X) != len(y) {
		return fmt.Errorf("X has %d rows but y has %d values", len(X), len(y))
	}
	if len(featureNames) != len(X[0]) {
		return fmt.Errorf("got %d feature names for %d features", len(featureNames), len(X[0]))
	}
	if rf.NumTrees <= 0 {
		return fmt.Errorf("forest needs at least one tree, got %d", rf.NumTrees)
	}
	if rf.BagFraction <= 0 || rf.BagFraction > 1 {
		return fmt.Errorf("bag fraction %v outside (0,1]", rf.BagFraction)
	}

	rf.FeatureNames = featureNames
	numFeatures := len(X[0])
	mtry := int(math.Ceil(float64(numFeatures) / 3))
	if mtry < 1 {
		mtry = 1
	}

	rf.trees = make([]*regressionTree, rf.NumTrees)
	var wg sync.WaitGroup
	for i := 0; i < rf.NumTrees; i++ {
		wg.Add(1)
		go func(treeIdx int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(rf.Seed + int64(treeIdx)))
			bootX, bootY := bootstrapSample(X, y, rf.BagFraction, rng)
			tree := newRegressionTree(rf.MinLeaf, mtry, numFeatures, rng)
			tree.fit(bootX, bootY)
			rf.trees[treeIdx] = tree
		}(i)
	}
	wg.Wait()

	rf.importances = make([]float64, numFeatures)
	for _, tree := range rf.trees {
		floats.Add(rf.importances, tree.importances)
	}
	if total := floats.Sum(rf.importances); total > 0 {
		floats.Scale(1/total, rf.importances)
	}
	return nil
}

// Predict returns the ensemble mean for one feature vector.
func (rf *RandomForestRegressor) Predict(x []float64) (float64, error) {
	if len(rf.trees) == 0 {
		return 0, fmt.Errorf("model is not fitted")
	}
	if len(x) != len(rf.FeatureNames) {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(x), len(rf.FeatureNames))
	}
	sum := 0.0
	for _, tree := range rf.trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(rf.trees)), nil
}

// PredictBatch predicts every row of X in order.
func (rf *RandomForestRegressor) PredictBatch(X [][]float64) ([]float64, error) {
	predictions := make([]float64, len(X))
	for i, x := range X {
		p, err := rf.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		predictions[i] = p
	}
	return predictions, nil
}

// FeatureImportances returns the impurity reduction accumulated per input
// band across all trees, normalized to sum to one. Informational output
// only; nothing downstream consumes it.
func (rf *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if rf.importances == nil {
		return nil, fmt.Errorf("model is not fitted")
	}
	out := make([]float64, len(rf.importances))
	copy(out, rf.importances)
	return out, nil
}

func bootstrapSample(X [][]float64, y []float64, bagFraction float64, rng *rand.Rand) ([][]float64, []float64) {
	n := len(X)
	m := int(math.Round(bagFraction * float64(n)))
	if m < 1 {
		m = 1
	}
	bootX := make([][]float64, m)
	bootY := make([]float64, m)
	for i := 0; i < m; i++ {
		idx := rng.Intn(n)
		bootX[i] = X[idx]
		bootY[i] = y[idx]
	}
	return bootX, bootY
}
