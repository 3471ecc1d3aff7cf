package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/model"
)

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	// Diagnostics adds data-source provenance to every successful result
	Diagnostics bool
	// CacheTTL enables estimator reuse for identical training tables when > 0
	CacheTTL time.Duration
}

// PricingService runs the estimation pipeline end to end:
// acquire -> normalize -> train -> predict.
type PricingService struct {
	acquirer    *Acquirer
	normalizer  *Normalizer
	trainer     *Trainer
	predictor   *Predictor
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	diagnostics bool
}

// NewPricingService creates a pricing service. cache may be nil; it is only
// consulted when config.CacheTTL is positive.
func NewPricingService(
	acquirer *Acquirer,
	normalizer *Normalizer,
	trainer *Trainer,
	predictor *Predictor,
	cache domain.CacheRepository,
	config PricingServiceConfig,
) *PricingService {
	return &PricingService{
		acquirer:    acquirer,
		normalizer:  normalizer,
		trainer:     trainer,
		predictor:   predictor,
		cache:       cache,
		cacheTTL:    config.CacheTTL,
		diagnostics: config.Diagnostics,
	}
}

// EstimateArgs parses positional inputs and runs Estimate. Fewer than four
// inputs short-circuit to the soft no-op result without touching any data.
func (s *PricingService) EstimateArgs(ctx context.Context, args []string) (domain.PredictionResult, error) {
	query, err := ParseQuery(args)
	if errors.Is(err, domain.ErrNotEnoughInputs) {
		return domain.NotEnoughInputsResult(), nil
	}
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return s.Estimate(ctx, query)
}

// Estimate prices one query, retraining from the data source. Only training
// and prediction failures are returned; data source problems fall back to
// the synthetic table.
func (s *PricingService) Estimate(ctx context.Context, query domain.Query) (domain.PredictionResult, error) {
	dataset, err := s.acquirer.Acquire(ctx)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	table, buckets := s.normalizer.Fit(dataset.Records)

	est, cached, err := s.estimator(ctx, table, buckets)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	features := s.normalizer.QueryFeatures(query, buckets)
	estimate, err := s.predictor.Predict(est, features, query.Name)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	slog.Debug("prediction complete",
		"source", dataset.Provenance.Source,
		"rows", len(table),
		"raw", estimate.Raw,
		"price", estimate.Price,
		"adjustments", estimate.Adjustments,
	)

	result := domain.PriceResult(estimate.Price)
	if s.diagnostics {
		result.Diagnostics = &domain.Diagnostics{
			DataSource:   dataset.Provenance,
			TrainingRows: len(table),
			Adjustments:  estimate.Adjustments,
			CachedModel:  cached,
		}
	}
	return result, nil
}

// estimator trains a fresh estimator, or reuses one fitted on an identical
// table when the cache is enabled.
func (s *PricingService) estimator(ctx context.Context, table domain.TrainingTable, buckets *BrandBuckets) (*model.Estimator, bool, error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		est, err := s.trainer.Train(table)
		return est, false, err
	}

	key := s.generateCacheKey(table, buckets)
	if v, err := s.cache.Get(ctx, key); err == nil {
		if est, ok := v.(*model.Estimator); ok {
			return est, true, nil
		}
	}

	est, err := s.trainer.Train(table)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(ctx, key, est, s.cacheTTL); err != nil {
		slog.Warn("estimator cache write failed", "error", err)
	}
	return est, false, nil
}

// generateCacheKey hashes the training table, the brand buckets and the
// forest hyperparameters. Format: "estimator:{sha256}"
func (s *PricingService) generateCacheKey(table domain.TrainingTable, buckets *BrandBuckets) string {
	h := sha256.New()
	cfg := s.trainer.ForestConfig()
	fmt.Fprintf(h, "trees=%d seed=%d depth=%d leaf=%d\n", cfg.Trees, cfg.Seed, cfg.MaxDepth, cfg.MinSamplesLeaf)
	fmt.Fprintf(h, "brands=%s\n", strings.Join(buckets.Brands(), "\x1f"))
	for _, row := range table {
		f := row.Features
		h.Write([]byte(f.Category + "\x1f" + f.Brand + "\x1f" +
			strconv.FormatFloat(f.Rating, 'g', -1, 64) + "\x1f" +
			strconv.FormatInt(f.RatingCount, 10) + "\x1f" +
			strconv.FormatFloat(row.Price, 'g', -1, 64) + "\n"))
	}
	return "estimator:" + hex.EncodeToString(h.Sum(nil))
}

// RenderError converts a fatal pipeline error into the output contract's
// error object.
func RenderError(err error) domain.PredictionResult {
	switch {
	case errors.Is(err, domain.ErrTrainingFailure):
		return domain.ErrorResult("Training error: " + err.Error())
	case errors.Is(err, domain.ErrFallbackUnavailable):
		return domain.ErrorResult("Data loading error: " + err.Error())
	default:
		return domain.ErrorResult("Prediction error: " + err.Error())
	}
}
