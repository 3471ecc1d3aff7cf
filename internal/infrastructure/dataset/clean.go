package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Anything that is not a digit or a decimal point: currency symbols,
	// thousands separators, encoding artifacts.
	nonPriceChars = regexp.MustCompile(`[^0-9.]`)
)

// CleanPrice strips every character that is not a digit or '.' and parses
// the remainder. ok is false when nothing parsable is left.
//
//	"₹12,000.00" -> 12000, true
//	"500"        -> 500, true
//	"N/A"        -> 0, false
func CleanPrice(raw string) (float64, bool) {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CoerceNumber parses a rating-like value. Surrounding whitespace and ','
// thousands separators are tolerated; anything else unparsable is nil.
func CoerceNumber(raw string) *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// CoerceCount parses a rating count. Integral floats such as "100.0" are
// accepted, fractional values are not.
func CoerceCount(raw string) *int64 {
	f := CoerceNumber(raw)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt64/2 {
		return nil
	}
	n := int64(*f)
	return &n
}
