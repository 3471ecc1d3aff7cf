package dataset

import (
	"fmt"
	"strings"

	"github.com/marketmind/backend/internal/domain"
)

// Canonical column names every structured source must resolve
const (
	ColName        = "name"
	ColPrice       = "price"
	ColCategory    = "category"
	ColRating      = "rating"
	ColRatingCount = "rating_count"
)

// RequiredColumns lists the canonical columns in mapping priority order
var RequiredColumns = []string{ColName, ColPrice, ColCategory, ColRating, ColRatingCount}

// ColumnMap maps a canonical column name to its index in the source header
type ColumnMap map[string]int

// fuzzyRules are evaluated in order for every header that did not match a
// canonical name exactly. A header takes the first rule whose column is
// still unassigned.
var fuzzyRules = []struct {
	column string
	match  func(h string) bool
}{
	{ColName, func(h string) bool { return strings.Contains(h, "name") }},
	{ColPrice, func(h string) bool { return strings.Contains(h, "price") }},
	{ColCategory, func(h string) bool { return strings.Contains(h, "cat") }},
	{ColRating, func(h string) bool { return strings.Contains(h, "rating") && !strings.Contains(h, "count") }},
	{ColRatingCount, func(h string) bool { return strings.Contains(h, "count") }},
}

// NormalizeHeader lower-cases and trims a header, dropping a UTF-8 BOM
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// MapColumns resolves the canonical columns from a source header.
// Exact canonical headers win over fuzzy matches so that, for example,
// "discount_percentage" never shadows a real "rating_count" column.
// Extra or ambiguous columns are ignored. Missing required columns yield
// an error wrapping domain.ErrSchemaMismatch.
func MapColumns(headers []string) (ColumnMap, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	cols := make(ColumnMap, len(RequiredColumns))
	used := make(map[int]bool, len(headers))

	// Pass 1: exact canonical names ("Rating Count" counts as exact)
	for i, h := range normalized {
		key := strings.ReplaceAll(h, " ", "_")
		for _, c := range RequiredColumns {
			if key != c {
				continue
			}
			if _, taken := cols[c]; !taken {
				cols[c] = i
				used[i] = true
			}
		}
	}

	// Pass 2: fuzzy containment, first match per canonical column wins
	for i, h := range normalized {
		if used[i] {
			continue
		}
		for _, rule := range fuzzyRules {
			if _, taken := cols[rule.column]; taken {
				continue
			}
			if rule.match(h) {
				cols[rule.column] = i
				used[i] = true
				break
			}
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", domain.ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	return cols, nil
}
