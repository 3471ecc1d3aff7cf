package domain

import (
	"context"
	"time"
)

// DataSource is one rung of the acquisition ladder
type DataSource interface {
	// Name identifies the source in provenance and logs
	Name() string
	// Load reads, maps and cleans the source. Failures wrap ErrSourceUnavailable,
	// ErrSchemaMismatch or ErrDataExhausted.
	Load(ctx context.Context) ([]ProductRecord, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
