package domain

// NotEnoughInputsMessage is returned with a zero price when the caller
// supplies fewer than the four required inputs.
const NotEnoughInputsMessage = "Not enough inputs"

// Diagnostics carries optional, non-price metadata about how a prediction
// was produced. Consumers that only read predicted_price can ignore it.
type Diagnostics struct {
	DataSource   Provenance `json:"data_source"`
	TrainingRows int        `json:"training_rows"`
	Adjustments  []string   `json:"adjustments,omitempty"`
	CachedModel  bool       `json:"cached_model,omitempty"`
	RequestID    string     `json:"request_id,omitempty"`
}

// PredictionResult is the single JSON object written for every invocation.
// Exactly one of PredictedPrice or Error is set.
type PredictionResult struct {
	PredictedPrice *float64     `json:"predicted_price,omitempty"`
	Message        string       `json:"message,omitempty"`
	Diagnostics    *Diagnostics `json:"diagnostics,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// PriceResult builds a successful result
func PriceResult(price float64) PredictionResult {
	return PredictionResult{PredictedPrice: &price}
}

// NotEnoughInputsResult builds the soft no-op result
func NotEnoughInputsResult() PredictionResult {
	zero := 0.0
	return PredictionResult{PredictedPrice: &zero, Message: NotEnoughInputsMessage}
}

// ErrorResult builds a failure result
func ErrorResult(msg string) PredictionResult {
	return PredictionResult{Error: msg}
}

// IsError reports whether the result represents a failed invocation
func (r PredictionResult) IsError() bool {
	return r.Error != ""
}
