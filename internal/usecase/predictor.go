package usecase

import (
	"fmt"
	"math"

	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/model"
)

// Adjustment labels reported in diagnostics
const (
	AdjustmentFloor     = "negative_floor"
	AdjustmentAccessory = "accessory_correction"
)

// PredictorConfig holds the post-hoc correction constants. They are tuned
// empirically and meant to be overridden from configuration.
type PredictorConfig struct {
	Keywords           []string
	Threshold          float64
	Divisor            float64
	Ceiling            float64
	Floor              float64
	EnableDebugLogging bool
}

// Predictor scores one query and applies the sanity corrections
type Predictor struct {
	detector  *AccessoryDetector
	threshold float64
	divisor   float64
	ceiling   float64
	floor     float64
}

// Estimate is a corrected, rounded prediction
type Estimate struct {
	Price       float64
	Raw         float64
	Adjustments []string
}

// NewPredictor creates a predictor, filling zero config values with defaults
func NewPredictor(config PredictorConfig) *Predictor {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = 2000
	}

	divisor := config.Divisor
	if divisor <= 0 {
		divisor = 10
	}

	ceiling := config.Ceiling
	if ceiling <= 0 {
		ceiling = 999
	}

	floor := config.Floor
	if floor <= 0 {
		floor = 100
	}

	return &Predictor{
		detector:  NewAccessoryDetector(config.Keywords, config.EnableDebugLogging),
		threshold: threshold,
		divisor:   divisor,
		ceiling:   ceiling,
		floor:     floor,
	}
}

// Predict obtains the raw estimate for fv and corrects it using the query's
// product name. Estimator failures and panics become domain.ErrPredictionFailure.
func (p *Predictor) Predict(est *model.Estimator, fv domain.FeatureVector, name string) (out Estimate, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Estimate{}
			err = fmt.Errorf("%w: %v", domain.ErrPredictionFailure, r)
		}
	}()

	raw, err := est.Predict(toSample(fv))
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", domain.ErrPredictionFailure, err)
	}

	price, adjustments := p.Adjust(raw, name)
	return Estimate{Price: price, Raw: raw, Adjustments: adjustments}, nil
}

// Adjust applies the negative floor, the cheap-accessory correction and
// rounding to a raw model estimate.
func (p *Predictor) Adjust(raw float64, name string) (float64, []string) {
	var adjustments []string
	value := raw

	if value < 0 {
		value = p.floor
		adjustments = append(adjustments, AdjustmentFloor)
	}

	if value > p.threshold {
		if _, ok := p.detector.Match(name); ok {
			value = math.Min(value/p.divisor, p.ceiling)
			adjustments = append(adjustments, AdjustmentAccessory)
		}
	}

	return roundPrice(value), adjustments
}

// roundPrice rounds to 2 decimal places, halves away from zero
func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
