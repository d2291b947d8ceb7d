package regress

import (
	"fmt"
	"math/rand"
)

// Boosting defaults, tuned for small weekly training sets
const (
	DefaultBoostingTrees = 50
	DefaultLearningRate  = 0.1
	boostingMaxDepth     = 3
	boostingMinLeaf      = 2
)

// GradientBoostingRegressor fits shallow regression trees sequentially on
// the residuals of the running prediction, shrunk by the learning rate.
type GradientBoostingRegressor struct {
	NumTrees     int         `json:"num_trees"`
	LearningRate float64     `json:"learning_rate"`
	Seed         int64       `json:"seed"`
	InitValue    float64     `json:"init_value"`
	Trees        []*treeNode `json:"trees"`

	fitted      bool
	importances []float64
}

// NewGradientBoosting creates an unfitted gradient boosting regressor
func NewGradientBoosting(numTrees int, learningRate float64, seed int64) *GradientBoostingRegressor {
	if numTrees <= 0 {
		numTrees = DefaultBoostingTrees
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}
	return &GradientBoostingRegressor{NumTrees: numTrees, LearningRate: learningRate, Seed: seed}
}

// Name returns the estimator family name
func (g *GradientBoostingRegressor) Name() string { return FamilyGradientBoosting }

// Fit trains the boosted ensemble against squared-error residuals
func (g *GradientBoostingRegressor) Fit(X [][]float64, y []float64) error {
	if err := validateDataset(X, y); err != nil {
		return err
	}

	n := len(X)
	width := len(X[0])
	rng := rand.New(rand.NewSource(g.Seed))

	params := treeParams{maxDepth: boostingMaxDepth, minLeaf: boostingMinLeaf}

	g.InitValue = 0.0
	for _, v := range y {
		g.InitValue += v
	}
	g.InitValue /= float64(n)

	current := make([]float64, n)
	for i := range current {
		current[i] = g.InitValue
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	residuals := make([]float64, n)
	g.Trees = make([]*treeNode, 0, g.NumTrees)
	g.importances = make([]float64, width)

	for t := 0; t < g.NumTrees; t++ {
		for i := range residuals {
			residuals[i] = y[i] - current[i]
		}

		tree := buildTree(X, residuals, idx, 0, params, rng, g.importances)
		g.Trees = append(g.Trees, tree)

		for i, row := range X {
			current[i] += g.LearningRate * tree.predict(row)
		}
	}

	normalizeImportances(g.importances)
	g.fitted = true
	return nil
}

// Predict sums the shrunk tree contributions over the initial value
func (g *GradientBoostingRegressor) Predict(x []float64) (float64, error) {
	if !g.fitted && len(g.Trees) == 0 {
		return 0, fmt.Errorf("%s: %w", FamilyGradientBoosting, ErrNotFitted)
	}

	sum := g.InitValue
	for _, tree := range g.Trees {
		sum += g.LearningRate * tree.predict(x)
	}
	return sum, nil
}

// FeatureImportances returns normalized impurity-decrease weights
func (g *GradientBoostingRegressor) FeatureImportances() []float64 {
	return g.importances
}
