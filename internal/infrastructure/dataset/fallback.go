package dataset

import (
	"context"

	"github.com/marketmind/backend/internal/domain"
)

type fallbackRow struct {
	name        string
	category    string
	price       float64
	rating      float64
	ratingCount int64
}

// Small fixed table spanning two categories and two orders of magnitude in price
var fallbackRows = []fallbackRow{
	{"Gaming Laptop", "Electronics", 50000, 4.5, 1000},
	{"Office Mouse", "Accessories", 500, 4.0, 500},
	{"4K TV", "Electronics", 30000, 4.8, 200},
	{"Headphones", "Accessories", 2000, 3.5, 50},
	{"USB Cable", "Accessories", 200, 4.2, 100},
}

// FallbackRecords returns a fresh copy of the synthetic training table
func FallbackRecords() []domain.ProductRecord {
	records := make([]domain.ProductRecord, len(fallbackRows))
	for i, r := range fallbackRows {
		rating := r.rating
		count := r.ratingCount
		records[i] = domain.ProductRecord{
			Name:        r.name,
			Category:    r.category,
			Price:       r.price,
			Rating:      &rating,
			RatingCount: &count,
		}
	}
	return records
}

// FallbackSource serves the synthetic table as the last rung of the ladder
type FallbackSource struct{}

// Name identifies the source in provenance
func (FallbackSource) Name() string {
	return domain.SourceFallback
}

// Load never fails for the built-in table
func (FallbackSource) Load(context.Context) ([]domain.ProductRecord, error) {
	return FallbackRecords(), nil
}
