package ml

import (
	"math"
	"math/rand"
	"sort"
)

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// regressionTree is one member of the forest: a variance-reduction CART
// tree grown until leaves fall below the minimum population. Missing
// predictor values (NaN) always route to the left child, both while
// growing and while predicting, so a sample with missing bands still gets
// a prediction.
type regressionTree struct {
	root        *treeNode
	minLeaf     int
	mtry        int
	rng         *rand.Rand
	importances []float64
}

func newRegressionTree(minLeaf, mtry, numFeatures int, rng *rand.Rand) *regressionTree {
	return &regressionTree{
		minLeaf:     minLeaf,
		mtry:        mtry,
		rng:         rng,
		importances: make([]float64, numFeatures),
	}
}

func (t *regressionTree) fit(X [][]float64, y []float64) {
	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}
	t.root = t.build(X, y, indices)
}

func (t *regressionTree) build(X [][]float64, y []float64, indices []int) *treeNode {
	mean, sse := meanSSE(y, indices)
	if len(indices) < 2*t.minLeaf || sse == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, indices, sse)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, idx := range indices {
		if goesLeft(X[idx][feature], threshold) {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) < t.minLeaf || len(right) < t.minLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	t.importances[feature] += gain

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.build(X, y, left),
		right:     t.build(X, y, right),
	}
}

// bestSplit scans a random subset of mtry features for the threshold with
// the largest sum-of-squares reduction. NaN feature values sort first so
// they stay on the left of every candidate threshold.
func (t *regressionTree) bestSplit(X [][]float64, y []float64, indices []int, parentSSE float64) (feature int, threshold, gain float64, ok bool) {
	numFeatures := len(X[indices[0]])
	candidates := t.rng.Perm(numFeatures)[:t.mtry]

	bestGain := 0.0
	for _, f := range candidates {
		sorted := make([]int, len(indices))
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			va, vb := X[sorted[a]][f], X[sorted[b]][f]
			if math.IsNaN(va) {
				return !math.IsNaN(vb)
			}
			if math.IsNaN(vb) {
				return false
			}
			return va < vb
		})

		// Prefix sums over the sorted order let every candidate
		// threshold be scored in constant time.
		n := len(sorted)
		prefixSum := make([]float64, n+1)
		prefixSq := make([]float64, n+1)
		for i, idx := range sorted {
			prefixSum[i+1] = prefixSum[i] + y[idx]
			prefixSq[i+1] = prefixSq[i] + y[idx]*y[idx]
		}

		for i := t.minLeaf; i <= n-t.minLeaf; i++ {
			prev, cur := X[sorted[i-1]][f], X[sorted[i]][f]
			if math.IsNaN(cur) || math.IsNaN(prev) || prev == cur {
				continue
			}

			leftN, rightN := float64(i), float64(n-i)
			leftSSE := prefixSq[i] - prefixSum[i]*prefixSum[i]/leftN
			rightSum := prefixSum[n] - prefixSum[i]
			rightSSE := (prefixSq[n] - prefixSq[i]) - rightSum*rightSum/rightN

			g := parentSSE - leftSSE - rightSSE
			if g > bestGain {
				bestGain = g
				feature = f
				threshold = (prev + cur) / 2
				ok = true
			}
		}
	}
	return feature, threshold, bestGain, ok
}

func (t *regressionTree) predict(x []float64) float64 {
	node := t.root
	for !node.leaf {
		if goesLeft(x[node.feature], node.threshold) {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func goesLeft(value, threshold float64) bool {
	return math.IsNaN(value) || value <= threshold
}

func meanSSE(y []float64, indices []int) (mean, sse float64) {
	var sum, sq float64
	for _, idx := range indices {
		sum += y[idx]
		sq += y[idx] * y[idx]
	}
	n := float64(len(indices))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // numeric noise on constant targets
	}
	return mean, sse
}
