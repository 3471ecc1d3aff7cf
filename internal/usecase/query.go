package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/marketmind/backend/internal/domain"
)

// RequiredInputs is the number of positional inputs a query needs
const RequiredInputs = 4

// ParseQuery builds a Query from positional inputs
// (name, category, rating, rating_count). Extra inputs are ignored.
func ParseQuery(args []string) (domain.Query, error) {
	if len(args) < RequiredInputs {
		return domain.Query{}, fmt.Errorf("%w: got %d of %d", domain.ErrNotEnoughInputs, len(args), RequiredInputs)
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(args[2]), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return domain.Query{}, fmt.Errorf("%w: could not convert rating %q to float", domain.ErrInvalidQuery, args[2])
	}

	count, err := strconv.ParseInt(strings.TrimSpace(args[3]), 10, 64)
	if err != nil {
		return domain.Query{}, fmt.Errorf("%w: invalid integer rating_count %q", domain.ErrInvalidQuery, args[3])
	}

	return domain.Query{
		Name:        args[0],
		Category:    args[1],
		Rating:      rating,
		RatingCount: count,
	}, nil
}
