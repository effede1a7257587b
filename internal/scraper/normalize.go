package scraper

import (
	"regexp"
	"strings"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// NormalizeText lowercases page text and collapses all whitespace runs so
// the same page yields the same string regardless of which fetch path
// produced it. Stored references are compared byte-for-byte across runs.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(spaceRegex.ReplaceAllString(text, " ")))
}
