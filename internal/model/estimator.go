package model

import (
	"fmt"
	"math"
)

// Sample is one model input: categorical columns are one-hot encoded,
// numeric columns pass through unscaled.
type Sample struct {
	Categorical []string
	Numeric     []float64
}

// Estimator is the fitted encode-then-regress pipeline. It lives only in
// memory and is never serialized.
type Estimator struct {
	encoder  *OneHotEncoder
	forest   *Forest
	numeric  int
	features int
}

// Fit learns the encoder vocabulary and the forest from samples and targets
func Fit(samples []Sample, targets []float64, cfg ForestConfig) (*Estimator, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(targets) != len(samples) {
		return nil, fmt.Errorf("%w: %d samples, %d targets", ErrShapeMismatch, len(samples), len(targets))
	}
	for i, y := range targets {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("%w: target %d", ErrNonFinite, i)
		}
	}

	cats := make([][]string, len(samples))
	for i, s := range samples {
		cats[i] = s.Categorical
	}
	enc, err := FitOneHot(cats)
	if err != nil {
		return nil, err
	}

	e := &Estimator{encoder: enc, numeric: len(samples[0].Numeric)}
	e.features = enc.Width() + e.numeric

	x := make([][]float64, len(samples))
	for i, s := range samples {
		row, err := e.encode(s)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		x[i] = row
	}

	forest, err := FitForest(x, targets, cfg)
	if err != nil {
		return nil, err
	}
	e.forest = forest
	return e, nil
}

func (e *Estimator) encode(s Sample) ([]float64, error) {
	if len(s.Numeric) != e.numeric {
		return nil, fmt.Errorf("%w: got %d numeric columns, want %d", ErrShapeMismatch, len(s.Numeric), e.numeric)
	}
	row := make([]float64, e.features)
	if err := e.encoder.EncodeInto(row[:e.encoder.Width()], s.Categorical); err != nil {
		return nil, err
	}
	for j, v := range s.Numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: numeric column %d", ErrNonFinite, j)
		}
		row[e.encoder.Width()+j] = v
	}
	return row, nil
}

// Predict returns the point estimate for one sample
func (e *Estimator) Predict(s Sample) (float64, error) {
	if e == nil || e.forest == nil {
		return 0, ErrNotFitted
	}
	row, err := e.encode(s)
	if err != nil {
		return 0, err
	}
	return e.forest.Predict(row), nil
}

// Features returns the encoded feature width
func (e *Estimator) Features() int {
	return e.features
}

// Trees returns the ensemble size
func (e *Estimator) Trees() int {
	return e.forest.Size()
}

// Vocabulary returns the categories learned for categorical column j
func (e *Estimator) Vocabulary(j int) []string {
	return e.encoder.Categories(j)
}
