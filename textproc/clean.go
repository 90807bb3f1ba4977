// Package textproc cleans scraped review text: emoji stripping, whitespace
// collapsing, and optional machine translation.
package textproc

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean strips emoji and collapses runs of whitespace (including newlines)
// into single spaces, trimming the ends.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = gomoji.RemoveEmojis(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
