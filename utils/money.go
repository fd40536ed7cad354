package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice reads an operator-entered price string. Prices are stored
// exactly as entered, so this is lenient: currency signs, commas and
// surrounding space are ignored. Returns false for anything that still
// is not a number (including the empty string).
func ParsePrice(price string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(price)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatINR formats an amount as a rupee string like "₹12,34,567.50",
// using the Indian grouping scheme (last three digits, then pairs).
// Whole amounts are printed without decimals.
func FormatINR(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	var intPart, fracPart string
	if amount.Equal(amount.Truncate(0)) {
		intPart = amount.Truncate(0).String()
	} else {
		fixed := amount.StringFixed(2)
		dot := strings.Index(fixed, ".")
		intPart = fixed[:dot]
		fracPart = fixed[dot:]
	}

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + ₹
	b.Grow(len(intPart) + len(intPart)/2 + len(fracPart) + 4)
	if neg {
		b.WriteString("-₹")
	} else {
		b.WriteString("₹")
	}

	if len(intPart) <= 3 {
		b.WriteString(intPart)
	} else {
		// Head digits group in pairs, the last three stay together.
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]

		rem := len(head) % 2
		if rem == 0 {
			rem = 2
		}
		b.WriteString(head[:rem])
		for i := rem; i < len(head); i += 2 {
			b.WriteByte(',')
			b.WriteString(head[i : i+2])
		}
		b.WriteByte(',')
		b.WriteString(tail)
	}

	b.WriteString(fracPart)
	return b.String()
}
