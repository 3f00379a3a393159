package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a free-text currency amount such as "₱2,250.00" into a
// major-unit decimal. Only digits and decimal points that follow a digit are
// kept, so the dot in "Php." or "Rs." is ignored. Empty, unparsable or
// negative input yields zero.
func ParsePrice(text string) decimal.Decimal {
	var (
		b        strings.Builder
		negative bool
	)
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && b.Len() > 0:
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}

	cleaned := b.String()
	if cleaned == "" || negative {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Zero
	}
	return d
}

// ToCentavos converts a major-unit amount to integer minor units, rounding
// half away from zero.
func ToCentavos(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
