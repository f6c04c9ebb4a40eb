// Package money holds the decimal helpers shared by every calculator.
// Values entering the engine from JSON, forms or the data store pass through
// Coerce once; after that all arithmetic stays in decimal.Decimal.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places every monetary output is rounded to.
const Places = 2

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Coerce converts a float coming from the boundary into a decimal.
// NaN and ±Inf become zero.
func Coerce(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// CoercePtr is Coerce for optional fields; nil becomes zero.
func CoercePtr(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return Coerce(*v)
}

// Parse reads a decimal from a string; empty or malformed input becomes zero.
func Parse(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds half away from zero to two places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent returns base × percent / 100.
func Percent(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

// Twelfths returns amount / 12 × n, multiplying first so that n = 12 is exact.
func Twelfths(amount decimal.Decimal, n int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(n))).Div(twelve)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
