package regress

import (
	"math/rand"
	"sort"
)

// treeNode is a single node in a CART regression tree. Leaves have nil children.
type treeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Value     float64   `json:"value"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
}

func (n *treeNode) isLeaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *treeNode) predict(x []float64) float64 {
	node := n
	for !node.isLeaf() {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// treeParams controls regression tree growth
type treeParams struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int // number of candidate features per split; 0 means all
}

// buildTree grows a regression tree on the rows selected by idx, splitting on
// variance reduction. Importance contributions are accumulated into the
// importances slice by feature index.
func buildTree(X [][]float64, y []float64, idx []int, depth int, params treeParams, rng *rand.Rand, importances []float64) *treeNode {
	node := &treeNode{Value: meanAt(y, idx)}

	if depth >= params.maxDepth || len(idx) < 2*params.minLeaf {
		return node
	}

	parentSSE := sseAt(y, idx, node.Value)
	if parentSSE == 0 {
		return node
	}

	feature, threshold, reduction, ok := bestSplit(X, y, idx, parentSSE, params, rng)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < params.minLeaf || len(right) < params.minLeaf {
		return node
	}

	importances[feature] += reduction

	node.Feature = feature
	node.Threshold = threshold
	node.Left = buildTree(X, y, left, depth+1, params, rng, importances)
	node.Right = buildTree(X, y, right, depth+1, params, rng, importances)
	return node
}

// bestSplit finds the split with the largest SSE reduction across the
// candidate feature subset. Returns ok=false when no split improves on the
// parent node.
func bestSplit(X [][]float64, y []float64, idx []int, parentSSE float64, params treeParams, rng *rand.Rand) (int, float64, float64, bool) {
	width := len(X[0])
	candidates := featureSubset(width, params.maxFeatures, rng)

	bestReduction := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	type pair struct {
		v, y float64
	}
	pairs := make([]pair, len(idx))

	for _, feature := range candidates {
		for k, i := range idx {
			pairs[k] = pair{v: X[i][feature], y: y[i]}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		// Prefix sums over the sorted order for O(1) SSE at each cut point
		n := len(pairs)
		sumLeft, sumSqLeft := 0.0, 0.0
		sumRight, sumSqRight := 0.0, 0.0
		for _, p := range pairs {
			sumRight += p.y
			sumSqRight += p.y * p.y
		}

		for k := 0; k < n-1; k++ {
			yv := pairs[k].y
			sumLeft += yv
			sumSqLeft += yv * yv
			sumRight -= yv
			sumSqRight -= yv * yv

			if pairs[k].v == pairs[k+1].v {
				continue
			}

			nLeft := float64(k + 1)
			nRight := float64(n - k - 1)
			sseLeft := sumSqLeft - sumLeft*sumLeft/nLeft
			sseRight := sumSqRight - sumRight*sumRight/nRight
			reduction := parentSSE - sseLeft - sseRight

			if reduction > bestReduction {
				bestReduction = reduction
				bestFeature = feature
				bestThreshold = (pairs[k].v + pairs[k+1].v) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestReduction, true
}

// featureSubset returns the candidate feature indices for one split
func featureSubset(width, maxFeatures int, rng *rand.Rand) []int {
	if maxFeatures <= 0 || maxFeatures >= width {
		all := make([]int, width)
		for j := range all {
			all[j] = j
		}
		return all
	}
	return rng.Perm(width)[:maxFeatures]
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int, mean float64) float64 {
	sse := 0.0
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return sse
}

// normalizeImportances scales importance weights to sum to 1 in place
func normalizeImportances(importances []float64) []float64 {
	total := 0.0
	for _, v := range importances {
		total += v
	}
	if total == 0 {
		return importances
	}
	for j := range importances {
		importances[j] /= total
	}
	return importances
}
