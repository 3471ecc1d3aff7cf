// Package app assembles the pricing pipeline from configuration. Both
// binaries build their service here so the CLI and the HTTP front behave
// identically.
package app

import (
	"log/slog"

	"github.com/marketmind/backend/config"
	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/infrastructure/dataset"
	"github.com/marketmind/backend/internal/usecase"
)

// Options carries per-binary overrides on top of the loaded configuration
type Options struct {
	// Cache is used for estimator reuse when cfg.Cache.TTL > 0. May be nil.
	Cache domain.CacheRepository
	// Diagnostics forces diagnostics on regardless of configuration
	Diagnostics bool
	// DisableCache keeps every request on a freshly trained estimator
	DisableCache bool
}

// NewPricingService wires sources, normalizer, trainer and predictor
func NewPricingService(cfg *config.Config, opts Options) *usecase.PricingService {
	sources := dataset.Sources(dataset.SourcesConfig{
		DatabaseURL: cfg.Source.DatabaseURL,
		Table:       cfg.Source.Table,
		CSVPath:     cfg.CSVPath(),
		Timeout:     cfg.Source.Timeout,
	})

	normalizer := usecase.NewNormalizer(usecase.NormalizerConfig{
		Policy:             cfg.Normalize.Policy,
		DefaultRating:      cfg.Normalize.DefaultRating,
		DefaultRatingCount: cfg.Normalize.DefaultRatingCount,
		TopBrands:          cfg.Model.TopBrands,
	})

	acquirer := usecase.NewAcquirer(sources, dataset.FallbackSource{}, normalizer)

	trainer := usecase.NewTrainer(usecase.TrainerConfig{
		Trees:          cfg.Model.Trees,
		Seed:           cfg.Model.Seed,
		MaxDepth:       cfg.Model.MaxDepth,
		MinSamplesLeaf: cfg.Model.MinSamplesLeaf,
	})

	predictor := usecase.NewPredictor(usecase.PredictorConfig{
		Keywords:           cfg.Heuristic.Keywords,
		Threshold:          cfg.Heuristic.Threshold,
		Divisor:            cfg.Heuristic.Divisor,
		Ceiling:            cfg.Heuristic.Ceiling,
		Floor:              cfg.Heuristic.Floor,
		EnableDebugLogging: cfg.LogLevel(slog.LevelWarn) <= slog.LevelDebug,
	})

	ttl := cfg.Cache.TTL
	if opts.DisableCache || opts.Cache == nil {
		ttl = 0
	}

	return usecase.NewPricingService(acquirer, normalizer, trainer, predictor, opts.Cache,
		usecase.PricingServiceConfig{
			Diagnostics: cfg.Output.Diagnostics || opts.Diagnostics,
			CacheTTL:    ttl,
		})
}
