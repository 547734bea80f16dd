package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a locale-formatted amount such as "5 300,11" to its
// numeric value. Interior whitespace (including NBSP, which PDF text
// extraction likes to emit) is a thousands separator; the comma is the
// decimal separator. Returns 0 when the residue is not numeric; callers
// treat that as "value not present".
func ParseAmount(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
