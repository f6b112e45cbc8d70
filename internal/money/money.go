// Package money parses and formats amounts in the single currency the ledger
// is denominated in. Amounts carry at most Scale fractional digits.
package money

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Scale         = 2
	DefaultSymbol = "₹"
)

// MaxIntegerDigits bounds the integer part of parsed text. It sits well above
// any configured maximum so the service's limit check still decides.
const MaxIntegerDigits = 20

var (
	ErrNotNumeric = errors.New("amount is not a number")
	ErrTooPrecise = errors.New("amount has more than two fractional digits")
	ErrTooLarge   = errors.New("amount has too many digits")
)

// plainAmount is an optional sign, digits, and an optional fraction.
// Exponent notation is not accepted.
var plainAmount = regexp.MustCompile(`^([+-]?)(\d+)(?:\.(\d+))?$`)

// ParseAmount reads user-entered amount text. It does not check sign; that is
// the ledger's call. The text is shape-checked before decimal conversion so
// no input can force a large rescale.
func ParseAmount(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)

	m := plainAmount.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, ErrNotNumeric
	}

	sign, whole, frac := m[1], strings.TrimLeft(m[2], "0"), strings.TrimRight(m[3], "0")
	if len(whole) > MaxIntegerDigits {
		return decimal.Zero, ErrTooLarge
	}
	if len(frac) > Scale {
		return decimal.Zero, ErrTooPrecise
	}

	canonical := sign + "0" + whole
	if frac != "" {
		canonical += "." + frac
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

// Format renders d as symbol-prefixed text with thousands separators and two
// fractional digits, e.g. ₹1,234,567.50. Halves round away from zero.
func Format(d decimal.Decimal, symbol string) string {
	fixed := d.Abs().StringFixed(Scale)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(Scale).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
