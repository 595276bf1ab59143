// Package amount turns the amount representations found on statements into signed decimals.
package amount

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var currencyMarkers = []string{"MYR", "RM"}

// Normalize converts a raw amount into a signed decimal. The bool is false when
// the value is absent or cannot be parsed; Normalize never panics.
//
// Numeric inputs are returned as-is. Strings are cleaned of currency markers,
// thousands separators and whitespace; a trailing CR forces a positive value, a
// trailing DR forces a negative one, and a parenthesized value is negative.
func Normalize(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return Normalize(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		return NormalizeString(v.String())
	case string:
		return NormalizeString(v)
	case *string:
		if v == nil {
			return decimal.Zero, false
		}
		return NormalizeString(*v)
	default:
		return decimal.Zero, false
	}
}

// NormalizeString is Normalize for string input.
func NormalizeString(raw string) (decimal.Decimal, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, false
	}

	// 0 = keep parsed sign, 1 = force positive, -1 = force negative
	forced := 0
	switch {
	case strings.HasSuffix(s, "CR"):
		s = strings.TrimSuffix(s, "CR")
		forced = 1
	case strings.HasSuffix(s, "DR"):
		s = strings.TrimSuffix(s, "DR")
		forced = -1
	}

	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	negate := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		s = s[1 : len(s)-1]
		negate = true
	}

	switch s {
	case "", "-", "--":
		return decimal.Zero, false
	}
	s = strings.TrimPrefix(s, "+")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negate {
		d = d.Neg()
	}
	switch forced {
	case 1:
		d = d.Abs()
	case -1:
		d = d.Abs().Neg()
	}
	return d, true
}

// Ptr is Normalize returning nil when the value is absent.
func Ptr(raw any) *decimal.Decimal {
	d, ok := Normalize(raw)
	if !ok {
		return nil
	}
	return &d
}
