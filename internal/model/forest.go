package model

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

// ForestConfig holds the hyperparameters of the bagged tree ensemble
type ForestConfig struct {
	Trees          int
	Seed           uint64
	MaxDepth       int
	MinSamplesLeaf int
}

// Forest is an ensemble of regression trees, each fit on a bootstrap sample.
// Its prediction is the mean of the tree predictions.
type Forest struct {
	trees []*RegressionTree
}

// FitForest trains cfg.Trees trees sequentially from a single seeded source,
// so a fixed x, y and seed always produce the same forest.
func FitForest(x [][]float64, y []float64, cfg ForestConfig) (*Forest, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d samples, %d targets", ErrShapeMismatch, n, len(y))
	}
	if cfg.Trees < 1 {
		return nil, fmt.Errorf("tree count must be positive, got %d", cfg.Trees)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	treeCfg := TreeConfig{MaxDepth: cfg.MaxDepth, MinSamplesLeaf: cfg.MinSamplesLeaf}

	layout := newColumnLayout(x)
	f := &Forest{trees: make([]*RegressionTree, 0, cfg.Trees)}
	idx := make([]int, n)
	for t := 0; t < cfg.Trees; t++ {
		for k := range idx {
			idx[k] = rng.IntN(n)
		}
		f.trees = append(f.trees, growTree(layout, y, idx, treeCfg, rng))
	}
	return f, nil
}

// Predict averages the tree predictions for one encoded sample
func (f *Forest) Predict(x []float64) float64 {
	preds := make([]float64, len(f.trees))
	for i, t := range f.trees {
		preds[i] = t.Predict(x)
	}
	return stat.Mean(preds, nil)
}

// Size returns the number of trees
func (f *Forest) Size() int {
	return len(f.trees)
}
