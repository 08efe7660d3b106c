package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 {
	return &v
}

func quotesOf(amounts ...*float64) []Quote {
	quotes := make([]Quote, len(amounts))
	for i, a := range amounts {
		quotes[i] = Quote{HourlyUSD: a}
	}
	return quotes
}

func TestRepresentative(t *testing.T) {
	tests := []struct {
		name   string
		quotes []Quote
		want   *float64
	}{
		{
			name:   "prefers minimum strictly positive",
			quotes: quotesOf(amount(7), amount(3), amount(5)),
			want:   amount(3),
		},
		{
			name:   "negative never beats positive",
			quotes: quotesOf(amount(-5), amount(3)),
			want:   amount(3),
		},
		{
			name:   "zero placeholder never beats positive",
			quotes: quotesOf(amount(0), amount(0.5)),
			want:   amount(0.5),
		},
		{
			name:   "all non-positive returns arithmetic minimum",
			quotes: quotesOf(amount(0), amount(-2), amount(-1)),
			want:   amount(-2),
		},
		{
			name:   "absent amounts are ignored",
			quotes: quotesOf(nil, amount(4), nil),
			want:   amount(4),
		},
		{
			name:   "no present amounts",
			quotes: quotesOf(nil, nil),
			want:   nil,
		},
		{
			name:   "empty set",
			quotes: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Representative(tt.quotes)
			if tt.want == nil {
				assert.Nil(t, rep)
				return
			}
			require.NotNil(t, rep)
			require.NotNil(t, rep.HourlyUSD)
			assert.Equal(t, *tt.want, *rep.HourlyUSD)
		})
	}
}

func TestRepresentativeKeepsAttributes(t *testing.T) {
	quotes := []Quote{
		{HourlyUSD: amount(2), Attributes: map[string]string{"sku": "EXPENSIVE"}},
		{HourlyUSD: amount(1), Attributes: map[string]string{"sku": "CHEAP"}},
	}
	rep := Representative(quotes)
	require.NotNil(t, rep)
	assert.Equal(t, "CHEAP", rep.Attributes["sku"])
}
