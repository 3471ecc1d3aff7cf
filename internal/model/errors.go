package model

import "errors"

var (
	// ErrEmptyTrainingSet is returned when Fit is called without samples
	ErrEmptyTrainingSet = errors.New("empty training set")

	// ErrShapeMismatch is returned when samples disagree on column counts
	ErrShapeMismatch = errors.New("sample shape mismatch")

	// ErrNonFinite is returned for NaN or infinite inputs
	ErrNonFinite = errors.New("non-finite value")

	// ErrNotFitted is returned when predicting with an unfitted estimator
	ErrNotFitted = errors.New("estimator not fitted")
)
