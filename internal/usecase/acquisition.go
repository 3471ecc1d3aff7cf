package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marketmind/backend/internal/domain"
)

// RowAdmitter applies the row admission policy to freshly loaded records
type RowAdmitter interface {
	Admit(records []domain.ProductRecord) []domain.ProductRecord
}

// Acquirer walks the data source ladder in order and returns the first
// source that yields usable rows. The fallback source is always tried last.
type Acquirer struct {
	sources  []domain.DataSource
	fallback domain.DataSource
	admitter RowAdmitter
}

// NewAcquirer creates an acquirer. sources are tried in order before fallback.
func NewAcquirer(sources []domain.DataSource, fallback domain.DataSource, admitter RowAdmitter) *Acquirer {
	return &Acquirer{
		sources:  sources,
		fallback: fallback,
		admitter: admitter,
	}
}

// Acquire returns a non-empty dataset. Source failures of any kind are
// absorbed and recorded in the provenance reason; an error is returned only
// when the fallback table itself cannot be produced.
func (a *Acquirer) Acquire(ctx context.Context) (*domain.Dataset, error) {
	var reasons []string
	if len(a.sources) == 0 {
		reasons = append(reasons, domain.ErrNoSourceConfigured.Error())
	}

	for _, src := range a.sources {
		records, err := a.load(ctx, src)
		if err != nil {
			serr := &domain.SourceError{Source: src.Name(), Err: err}
			slog.Warn("acquisition: source failed, trying next", "source", src.Name(), "reason", err)
			reasons = append(reasons, serr.Error())
			continue
		}
		slog.Debug("acquisition: source accepted", "source", src.Name(), "rows", len(records))
		return &domain.Dataset{
			Records:    records,
			Provenance: domain.Provenance{Source: src.Name(), Rows: len(records)},
		}, nil
	}

	if a.fallback == nil {
		return nil, domain.ErrFallbackUnavailable
	}
	records, err := a.load(ctx, a.fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFallbackUnavailable, &domain.SourceError{Source: a.fallback.Name(), Err: err})
	}

	slog.Debug("acquisition: using synthetic fallback table", "rows", len(records))
	return &domain.Dataset{
		Records: records,
		Provenance: domain.Provenance{
			Source: a.fallback.Name(),
			Reason: strings.Join(reasons, "; "),
			Rows:   len(records),
		},
	}, nil
}

// load reads one source and applies row admission. A source that loads but
// admits no rows counts as exhausted.
func (a *Acquirer) load(ctx context.Context, src domain.DataSource) ([]domain.ProductRecord, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if a.admitter != nil {
		records = a.admitter.Admit(records)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows admitted", domain.ErrDataExhausted)
	}
	return records, nil
}
