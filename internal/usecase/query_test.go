package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketmind/backend/internal/domain"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery([]string{"USB Cable", "Accessories", " 4.0 ", "80", "ignored"})
	require.NoError(t, err)
	assert.Equal(t, domain.Query{Name: "USB Cable", Category: "Accessories", Rating: 4.0, RatingCount: 80}, q)
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "three inputs", args: []string{"USB Cable", "Accessories", "4.0"}, wantErr: domain.ErrNotEnoughInputs},
		{name: "no inputs", args: nil, wantErr: domain.ErrNotEnoughInputs},
		{name: "rating not a number", args: []string{"a", "b", "good", "1"}, wantErr: domain.ErrInvalidQuery},
		{name: "rating NaN", args: []string{"a", "b", "NaN", "1"}, wantErr: domain.ErrInvalidQuery},
		{name: "count not an integer", args: []string{"a", "b", "4", "1.5"}, wantErr: domain.ErrInvalidQuery},
		{name: "count with separators", args: []string{"a", "b", "4", "1,200"}, wantErr: domain.ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.args)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
