package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when a data source cannot be reached or read
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrSchemaMismatch is returned when required columns are missing after header mapping
	ErrSchemaMismatch = errors.New("data source schema mismatch")

	// ErrDataExhausted is returned when every row was dropped during cleaning
	ErrDataExhausted = errors.New("no usable rows after cleaning")

	// ErrNoSourceConfigured is returned when neither a database nor a file is configured
	ErrNoSourceConfigured = errors.New("no structured data source configured")

	// ErrFallbackUnavailable is returned when the synthetic table cannot be built
	ErrFallbackUnavailable = errors.New("synthetic fallback table unavailable")

	// ErrTrainingFailure is returned when fitting the estimator fails
	ErrTrainingFailure = errors.New("training failed")

	// ErrPredictionFailure is returned when the estimator cannot score a query
	ErrPredictionFailure = errors.New("prediction failed")

	// ErrInvalidQuery is returned when query inputs cannot be parsed
	ErrInvalidQuery = errors.New("invalid query")

	// ErrNotEnoughInputs is returned when fewer than four inputs are supplied
	ErrNotEnoughInputs = errors.New("not enough inputs")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// SourceError records which data source failed during acquisition
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
