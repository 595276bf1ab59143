package amount_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/SscSPs/mma_statements/internal/utils/amount"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		want   string
		wantOK bool
	}{
		{name: "credit suffix with separators", raw: "1,234.50 CR", want: "1234.5", wantOK: true},
		{name: "debit suffix", raw: "500.00 DR", want: "-500", wantOK: true},
		{name: "debit suffix lower case", raw: "500.00dr", want: "-500", wantOK: true},
		{name: "debit suffix on negative value stays negative", raw: "-500.00 DR", want: "-500", wantOK: true},
		{name: "credit suffix on negative value becomes positive", raw: "-12.00CR", want: "12", wantOK: true},
		{name: "parenthesized negative", raw: "(20.00)", want: "-20", wantOK: true},
		{name: "currency marker RM", raw: "RM 1,000.10", want: "1000.1", wantOK: true},
		{name: "currency marker MYR", raw: "MYR2,500", want: "2500", wantOK: true},
		{name: "leading plus", raw: "+15.25", want: "15.25", wantOK: true},
		{name: "plain negative", raw: "-42.1", want: "-42.1", wantOK: true},
		{name: "empty string", raw: "", wantOK: false},
		{name: "whitespace only", raw: "   ", wantOK: false},
		{name: "single dash", raw: "-", wantOK: false},
		{name: "double dash", raw: "--", wantOK: false},
		{name: "garbage", raw: "n/a", wantOK: false},
		{name: "nil", raw: nil, wantOK: false},
		{name: "float", raw: 12.5, want: "12.5", wantOK: true},
		{name: "int", raw: 7, want: "7", wantOK: true},
		{name: "json number", raw: json.Number("-3.75"), want: "-3.75", wantOK: true},
		{name: "NaN", raw: math.NaN(), wantOK: false},
		{name: "unsupported type", raw: []int{1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := amount.Normalize(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestNormalize_Stable(t *testing.T) {
	inputs := []any{"1,234.50 CR", "500.00 DR", "(20.00)", "RM 0.00", 99.99, json.Number("10")}
	for _, in := range inputs {
		first, ok := amount.Normalize(in)
		require.True(t, ok)

		again, ok := amount.Normalize(first)
		require.True(t, ok)
		assert.True(t, first.Equal(again))

		fromString, ok := amount.Normalize(first.String())
		require.True(t, ok)
		assert.True(t, first.Equal(fromString), "input %v", in)
	}
}

func TestPtr(t *testing.T) {
	assert.Nil(t, amount.Ptr(""))
	p := amount.Ptr("0.0")
	require.NotNil(t, p)
	assert.True(t, p.IsZero())
}
