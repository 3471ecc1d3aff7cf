package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitForest_Deterministic(t *testing.T) {
	x := [][]float64{{1, 0}, {2, 1}, {3, 0}, {4, 1}, {5, 0}, {6, 1}}
	y := []float64{100, 250, 300, 800, 900, 1500}
	cfg := ForestConfig{Trees: 15, Seed: 42}

	a, err := FitForest(x, y, cfg)
	require.NoError(t, err)
	b, err := FitForest(x, y, cfg)
	require.NoError(t, err)

	assert.Equal(t, 15, a.Size())
	for _, q := range [][]float64{{1, 0}, {3.5, 1}, {10, 0}} {
		assert.Equal(t, a.Predict(q), b.Predict(q))
	}
}

func TestFitForest_PredictionWithinTargetRange(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{50000, 500, 30000, 2000, 200}

	f, err := FitForest(x, y, ForestConfig{Trees: 10, Seed: 3})
	require.NoError(t, err)

	for _, q := range []float64{-10, 0, 2.5, 100} {
		p := f.Predict([]float64{q})
		assert.GreaterOrEqual(t, p, 200.0)
		assert.LessOrEqual(t, p, 50000.0)
	}
}

func TestFitForest_Errors(t *testing.T) {
	_, err := FitForest(nil, nil, ForestConfig{Trees: 1})
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)

	_, err = FitForest([][]float64{{1}}, []float64{1, 2}, ForestConfig{Trees: 1})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = FitForest([][]float64{{1}}, []float64{1}, ForestConfig{Trees: 0})
	assert.Error(t, err)
}
