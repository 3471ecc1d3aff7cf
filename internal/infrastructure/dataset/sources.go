package dataset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketmind/backend/internal/domain"
)

// SourcesConfig locates the structured sources
type SourcesConfig struct {
	DatabaseURL string
	Table       string
	CSVPath     string
	Timeout     time.Duration
}

// Sources returns the structured sources in precedence order: database
// when a URL is configured, then the CSV file when a path is configured.
// A malformed database URL still yields a source, one that always fails,
// so the problem is reported through the normal fallback path.
func Sources(cfg SourcesConfig) []domain.DataSource {
	var sources []domain.DataSource

	if cfg.DatabaseURL != "" {
		sources = append(sources, databaseSource(cfg))
	}
	if cfg.CSVPath != "" {
		sources = append(sources, NewCSVSource(cfg.CSVPath))
	}
	return sources
}

func databaseSource(cfg SourcesConfig) domain.DataSource {
	conn, err := ParseConnString(cfg.DatabaseURL)
	if err != nil {
		return Unavailable(domain.SourceDatabase, err)
	}
	src, err := NewSQLSource(conn, cfg.Table, cfg.Timeout)
	if err != nil {
		return Unavailable(domain.SourceDatabase, err)
	}
	return src
}

// UnavailableSource is a source known to be unusable before loading
type UnavailableSource struct {
	name string
	err  error
}

// Unavailable creates a source whose Load always fails with err
func Unavailable(name string, err error) *UnavailableSource {
	return &UnavailableSource{name: name, err: err}
}

// Name identifies the source in provenance
func (s *UnavailableSource) Name() string {
	return s.name
}

// Load always fails
func (s *UnavailableSource) Load(context.Context) ([]domain.ProductRecord, error) {
	if errors.Is(s.err, domain.ErrSourceUnavailable) {
		return nil, s.err
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, s.err)
}
