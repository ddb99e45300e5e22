package timesheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanDecimal parses "1.234,5" style numbers. Plain "2.5" is accepted when no comma is present
// and the dot is not a thousands separator.
func parseEuropeanDecimal(s string) (decimal.Decimal, error) {
	clean := s

	if strings.Contains(s, ",") || isThousandsGrouped(s) {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}

// isThousandsGrouped reports whether every dot in s is followed by exactly three digits and there is more than one group.
func isThousandsGrouped(s string) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), ".")
	if len(parts) < 3 {
		return false
	}

	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}

	return true
}
