package dataset

import (
	"fmt"

	"github.com/marketmind/backend/internal/domain"
)

// BuildRecords maps a header and raw string rows into ProductRecords.
// Rows whose price does not clean are dropped; unparsable ratings and
// counts are kept as nil for the normalizer to impute or drop.
func BuildRecords(headers []string, rows [][]string) ([]domain.ProductRecord, error) {
	cols, err := MapColumns(headers)
	if err != nil {
		return nil, err
	}

	field := func(row []string, col string) string {
		i := cols[col]
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]domain.ProductRecord, 0, len(rows))
	for _, row := range rows {
		price, ok := CleanPrice(field(row, ColPrice))
		if !ok {
			continue
		}
		records = append(records, domain.ProductRecord{
			Name:        field(row, ColName),
			Category:    field(row, ColCategory),
			Price:       price,
			Rating:      CoerceNumber(field(row, ColRating)),
			RatingCount: CoerceCount(field(row, ColRatingCount)),
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d rows read, none with a usable price", domain.ErrDataExhausted, len(rows))
	}
	return records, nil
}
