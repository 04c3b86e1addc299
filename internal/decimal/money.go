// Package decimal wraps github.com/shopspring/decimal with the rounding and
// formatting conventions the invoice core requires: 2 fractional digits for
// money amounts, banker's rounding (half-to-even) rather than half-up, and no
// floating-point entry points anywhere in the call chain.
package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero.
var Zero = decimal.Zero

// Hundred is the constant 100, used throughout percentage arithmetic.
var Hundred = decimal.NewFromInt(100)

// FromInt creates a decimal from an integer number of currency units.
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses a decimal from its canonical string representation.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from a string, panicking on error. Reserved
// for constants known at compile time (code tables, test fixtures) — never
// called on caller-supplied input.
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to 2 fractional digits using banker's rounding (half-to-even),
// the invoice core's mandated rounding discipline for all monetary amounts.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Mul multiplies two decimals without intermediate rounding; callers round at
// the boundary where the value is finally emitted (line amount, VAT entry).
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Div divides a by b without intermediate rounding. Returns zero for division
// by zero rather than propagating an error — callers that divide by a
// quantity or base_quantity have already validated it is non-zero via
// structural invariants; a defensive zero keeps the calculator total-safe.
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b)
}

// Percentage computes amount * (rate/100) without rounding the result; the
// caller rounds once, at the point the value is stored (line net, VAT entry).
func Percentage(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(Hundred)
}

// Sum adds a slice of decimals, returning zero for an empty slice.
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsPositive reports whether d is strictly greater than zero.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative reports whether d is greater than or equal to zero.
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// WithinTolerance reports whether |a - b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(tolerance)
}

// FormatAmount renders a monetary amount with exactly 2 fractional digits,
// the default for XML amount elements.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMinimal renders a decimal with the minimum number of fractional
// digits needed to represent it exactly, but never fewer than 2 — the
// convention used for percentage and quantity elements on the wire
// ("19" -> "19.00", "0.005" stays "0.005", "49.90" stays "49.90").
func FormatMinimal(d decimal.Decimal) string {
	s := d.StringFixed(10)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) < 2 {
		fracPart += strings.Repeat("0", 2-len(fracPart))
	}
	return intPart + "." + fracPart
}
