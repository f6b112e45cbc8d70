package money

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"100.5", "₹100.50"},
		{"999.99", "₹999.99"},
		{"1000", "₹1,000.00"},
		{"1234567.5", "₹1,234,567.50"},
		{"123456", "₹123,456.00"},
		{"0.005", "₹0.01"},
		{"-42.1", "-₹42.10"},
		{"-0.001", "₹0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(decimal.RequireFromString(tt.in), DefaultSymbol))
		})
	}
}

func TestFormat_CustomSymbol(t *testing.T) {
	assert.Equal(t, "$12,000.25", Format(decimal.RequireFromString("12000.25"), "$"))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("  150.75 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("150.75")))

	d, err = ParseAmount("2.500")
	require.NoError(t, err, "trailing zeros are not extra precision")
	assert.True(t, d.Equal(decimal.RequireFromString("2.5")))

	d, err = ParseAmount("-3")
	require.NoError(t, err)
	assert.True(t, d.IsNegative())
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12,50", "1.2.3", "₹10"} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrNotNumeric, "input %q", in)
	}

	_, err := ParseAmount("10.001")
	assert.ErrorIs(t, err, ErrTooPrecise)
}

func TestParseAmount_RejectsExponentNotation(t *testing.T) {
	for _, in := range []string{"1e2", "1E2", "1e-20000000", "1e20000000", "2.5e1", ".5", "5."} {
		start := time.Now()
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrNotNumeric, "input %q", in)
		assert.Less(t, time.Since(start), 100*time.Millisecond, "input %q", in)
	}
}

func TestParseAmount_DigitBounds(t *testing.T) {
	_, err := ParseAmount(strings.Repeat("9", MaxIntegerDigits+1))
	assert.ErrorIs(t, err, ErrTooLarge)

	d, err := ParseAmount("000" + strings.Repeat("9", MaxIntegerDigits))
	require.NoError(t, err, "leading zeros do not count")
	assert.Equal(t, strings.Repeat("9", MaxIntegerDigits), d.String())

	start := time.Now()
	d, err = ParseAmount("7." + strings.Repeat("0", 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, int32(0), d.Exponent(), "trailing zeros are dropped before conversion")
	assert.True(t, d.Equal(decimal.NewFromInt(7)))
	assert.Less(t, time.Since(start), time.Second)
}
