package regress

import (
	"fmt"
	"math/rand"
)

// Forest growth defaults, tuned for small weekly training sets
const (
	DefaultForestTrees = 50
	forestMaxDepth     = 12
	forestMinLeaf      = 1
)

// RandomForestRegressor is a bagged ensemble of CART regression trees with
// per-split feature subsampling. Used for high-variance, high-signal
// positions.
type RandomForestRegressor struct {
	NumTrees int         `json:"num_trees"`
	Seed     int64       `json:"seed"`
	Trees    []*treeNode `json:"trees"`

	importances []float64
}

// NewRandomForest creates an unfitted random forest
func NewRandomForest(numTrees int, seed int64) *RandomForestRegressor {
	if numTrees <= 0 {
		numTrees = DefaultForestTrees
	}
	return &RandomForestRegressor{NumTrees: numTrees, Seed: seed}
}

// Name returns the estimator family name
func (f *RandomForestRegressor) Name() string { return FamilyRandomForest }

// Fit trains the ensemble on bootstrap samples of the training rows
func (f *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	if err := validateDataset(X, y); err != nil {
		return err
	}

	width := len(X[0])
	rng := rand.New(rand.NewSource(f.Seed))

	params := treeParams{
		maxDepth: forestMaxDepth,
		minLeaf:  forestMinLeaf,
		// Classic regression forest heuristic: a third of the features per split
		maxFeatures: max(1, width/3),
	}

	f.Trees = make([]*treeNode, 0, f.NumTrees)
	f.importances = make([]float64, width)

	n := len(X)
	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, buildTree(X, y, idx, 0, params, rng, f.importances))
	}

	normalizeImportances(f.importances)
	return nil
}

// Predict averages the predictions of every tree in the ensemble
func (f *RandomForestRegressor) Predict(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("%s: %w", FamilyRandomForest, ErrNotFitted)
	}

	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

// FeatureImportances returns normalized mean impurity-decrease weights
func (f *RandomForestRegressor) FeatureImportances() []float64 {
	return f.importances
}
