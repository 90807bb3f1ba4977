package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// ratingRe matches the first decimal number in a rating label, with either
// separator ("4.5", "4,5", "5").
var ratingRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseStars extracts a numeric star value from a rating aria-label such
// as "5 stars", "Rated 4.5 out of 5" or a localized "4,0 étoiles".
// Returns 0 when no number is found or the value is out of range.
func ParseStars(label string) float64 {
	m := ratingRe.FindString(label)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0
	}
	if v < 0 || v > 5 {
		return 0
	}
	return v
}
