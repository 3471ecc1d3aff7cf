package usecase

import (
	"fmt"

	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/model"
)

// TrainerConfig holds the forest hyperparameters
type TrainerConfig struct {
	Trees          int
	Seed           uint64
	MaxDepth       int
	MinSamplesLeaf int
}

// Trainer fits the encode+regress estimator on a training table
type Trainer struct {
	forest model.ForestConfig
}

// NewTrainer creates a trainer with default tree count and leaf size when unset
func NewTrainer(config TrainerConfig) *Trainer {
	trees := config.Trees
	if trees <= 0 {
		trees = 10
	}

	minLeaf := config.MinSamplesLeaf
	if minLeaf <= 0 {
		minLeaf = 1
	}

	return &Trainer{
		forest: model.ForestConfig{
			Trees:          trees,
			Seed:           config.Seed,
			MaxDepth:       config.MaxDepth,
			MinSamplesLeaf: minLeaf,
		},
	}
}

// ForestConfig returns the effective hyperparameters
func (t *Trainer) ForestConfig() model.ForestConfig {
	return t.forest
}

// Train fits a fresh estimator. Any failure, including a panic inside the
// fit, is reported as domain.ErrTrainingFailure.
func (t *Trainer) Train(table domain.TrainingTable) (est *model.Estimator, err error) {
	defer func() {
		if r := recover(); r != nil {
			est = nil
			err = fmt.Errorf("%w: %v", domain.ErrTrainingFailure, r)
		}
	}()

	samples := make([]model.Sample, len(table))
	targets := make([]float64, len(table))
	for i, row := range table {
		samples[i] = toSample(row.Features)
		targets[i] = row.Price
	}

	est, err = model.Fit(samples, targets, t.forest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTrainingFailure, err)
	}
	return est, nil
}

// toSample lays a feature vector out in the column order the estimator
// expects: category and brand one-hot, then rating and rating count.
func toSample(fv domain.FeatureVector) model.Sample {
	return model.Sample{
		Categorical: []string{fv.Category, fv.Brand},
		Numeric:     []float64{fv.Rating, float64(fv.RatingCount)},
	}
}
