package model

import (
	"fmt"
	"sort"
)

// OneHotEncoder expands categorical columns into indicator columns.
// Categories unseen at fit time encode as all zeros instead of failing.
type OneHotEncoder struct {
	categories [][]string
	index      []map[string]int
	offsets    []int
	width      int
}

// FitOneHot learns the sorted category vocabulary of every column.
// rows[i][j] is the value of categorical column j in sample i.
func FitOneHot(rows [][]string) (*OneHotEncoder, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	ncols := len(rows[0])

	seen := make([]map[string]struct{}, ncols)
	for j := range seen {
		seen[j] = make(map[string]struct{})
	}
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("%w: row %d has %d categorical columns, want %d", ErrShapeMismatch, i, len(row), ncols)
		}
		for j, v := range row {
			seen[j][v] = struct{}{}
		}
	}

	enc := &OneHotEncoder{
		categories: make([][]string, ncols),
		index:      make([]map[string]int, ncols),
		offsets:    make([]int, ncols),
	}
	for j := 0; j < ncols; j++ {
		cats := make([]string, 0, len(seen[j]))
		for v := range seen[j] {
			cats = append(cats, v)
		}
		sort.Strings(cats)

		enc.categories[j] = cats
		enc.index[j] = make(map[string]int, len(cats))
		for k, c := range cats {
			enc.index[j][c] = k
		}
		enc.offsets[j] = enc.width
		enc.width += len(cats)
	}
	return enc, nil
}

// Width is the number of indicator columns produced
func (e *OneHotEncoder) Width() int {
	return e.width
}

// Columns is the number of categorical input columns
func (e *OneHotEncoder) Columns() int {
	return len(e.categories)
}

// Categories returns the learned vocabulary of column j
func (e *OneHotEncoder) Categories(j int) []string {
	return append([]string(nil), e.categories[j]...)
}

// EncodeInto writes the indicator columns for row into dst, which must have
// length Width. Unknown values leave their block zeroed.
func (e *OneHotEncoder) EncodeInto(dst []float64, row []string) error {
	if len(row) != len(e.categories) {
		return fmt.Errorf("%w: got %d categorical columns, want %d", ErrShapeMismatch, len(row), len(e.categories))
	}
	for i := range dst {
		dst[i] = 0
	}
	for j, v := range row {
		if k, ok := e.index[j][v]; ok {
			dst[e.offsets[j]+k] = 1
		}
	}
	return nil
}
