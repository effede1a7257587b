package keyword

import (
	"strings"
	"unicode"

	"go-ezynotify/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var markStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases and strips combining marks so accented spellings
// still match ("Café" matches "cafe").
func Normalize(str string) string {
	result, _, _ := transform.String(markStripper, str)
	return strings.ToLower(result)
}

// Scan checks every pending keyword against the page text. Matching is
// plain substring containment on normalized text. Found keywords come back
// as timestamped hits; the rest stay pending for the next run.
func Scan(text string, keywords []string) (hits []models.KeywordHit, remaining []string) {
	normText := Normalize(text)

	for _, kw := range keywords {
		lowered := strings.ToLower(strings.TrimSpace(kw))
		if lowered == "" {
			continue
		}
		if strings.Contains(normText, Normalize(lowered)) {
			hits = append(hits, models.KeywordHit{
				Keyword: lowered,
				FoundAt: models.Now(),
			})
		} else {
			remaining = append(remaining, lowered)
		}
	}
	return hits, remaining
}
