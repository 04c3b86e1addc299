package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/decimal"
)

func TestFromInt(t *testing.T) {
	d := decimal.FromInt(15000)
	assert.True(t, d.Equal(dec.NewFromInt(15000)))
}

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestRound2BankersRounding(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"rounds half to even down", "1.005", "1.00"},
		{"rounds half to even up", "1.015", "1.02"},
		{"no rounding needed", "1.10", "1.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dec.RequireFromString(tt.input)
			result := decimal.Round2(d)
			assert.Equal(t, tt.expected, result.StringFixed(2))
		})
	}
}

func TestMul(t *testing.T) {
	a := dec.NewFromInt(10)
	b := dec.RequireFromString("150.00")
	result := decimal.Round2(decimal.Mul(a, b))
	assert.True(t, result.Equal(dec.NewFromInt(1500)))
}

func TestDiv(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromInt(3)
	result := decimal.Div(a, b)
	assert.True(t, decimal.Round2(result).Equal(dec.RequireFromString("33.33")))

	result = decimal.Div(a, dec.Zero)
	assert.True(t, result.IsZero())
}

func TestPercentage(t *testing.T) {
	amount := dec.NewFromInt(15000)
	rate := dec.NewFromInt(19)
	result := decimal.Round2(decimal.Percentage(amount, rate))
	assert.True(t, result.Equal(dec.RequireFromString("2850.00")))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	assert.True(t, decimal.Sum(values).Equal(dec.NewFromInt(600)))
}

func TestSumEmpty(t *testing.T) {
	assert.True(t, decimal.Sum(nil).IsZero())
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}

func TestWithinTolerance(t *testing.T) {
	a := dec.RequireFromString("100.00")
	b := dec.RequireFromString("100.015")
	tolerance := dec.RequireFromString("0.02")
	assert.True(t, decimal.WithinTolerance(a, b, tolerance))

	b = dec.RequireFromString("100.03")
	assert.False(t, decimal.WithinTolerance(a, b, tolerance))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1500.00", decimal.FormatAmount(dec.NewFromInt(1500)))
}

func TestFormatMinimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"100", "100.00"},
		{"1500.0", "1500.00"},
		{"49.90", "49.90"},
		{"1833.48", "1833.48"},
		{"0.005", "0.005"},
		{"19", "19.00"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d := dec.RequireFromString(tt.input)
			assert.Equal(t, tt.expected, decimal.FormatMinimal(d))
		})
	}
}
