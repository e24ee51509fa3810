package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Monetary values travel as two-decimal strings ("497.00"). Arithmetic is
// done on float64 and formatted back immediately.

// AmountTolerance is the absolute tolerance used when comparing amounts.
const AmountTolerance = 0.01

// FormatAmount renders a float as a two-decimal amount string.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// ParseAmount parses a two-decimal amount string. Empty strings parse as 0.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// MustParseAmount is ParseAmount for values we wrote ourselves.
func MustParseAmount(s string) float64 {
	v, err := ParseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

// AmountsEqual reports whether two amounts are equal within AmountTolerance.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= AmountTolerance
}
