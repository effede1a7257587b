package diff

import (
	"regexp"
	"strings"

	"go-ezynotify/internal/models"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextWords is how many words of surrounding context a change snippet
// keeps on each side of the changed block.
const contextWords = 2

var sentenceEnd = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences splits text into sentences, keeping the terminating
// punctuation with each sentence.
func SplitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x1f")
	parts := strings.Split(marked, "\x1f")

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Changes compares two versions of a page sentence by sentence and returns
// one record per changed sentence. Each record carries the words that
// appeared in the new version plus a short context snippet with those words
// bolded for the notification message.
func Changes(oldText, newText string) []models.ChangeRecord {
	oldSentences := SplitSentences(oldText)
	newSentences := SplitSentences(newText)

	n := len(oldSentences)
	if len(newSentences) < n {
		n = len(newSentences)
	}

	var records []models.ChangeRecord
	for i := 0; i < n; i++ {
		if oldSentences[i] == newSentences[i] {
			continue
		}

		newWords := strings.Fields(newSentences[i])
		inserted := insertedWordIndices(strings.Fields(oldSentences[i]), newWords)
		if len(inserted) == 0 {
			continue
		}

		added := make([]string, 0, len(inserted))
		for _, idx := range inserted {
			added = append(added, newWords[idx])
		}

		records = append(records, models.ChangeRecord{
			Change:  strings.Join(added, " "),
			Action:  "added",
			Context: boldedContext(newWords, inserted),
			Time:    models.Now(),
		})
	}
	return records
}

// insertedWordIndices runs a word-level diff and returns the indices (into
// newWords) of words that were inserted. Words are mapped to runes so the
// diff works on whole words instead of characters.
func insertedWordIndices(oldWords, newWords []string) []int {
	dmp := diffmatchpatch.New()
	oldJoined := strings.Join(oldWords, "\n") + "\n"
	newJoined := strings.Join(newWords, "\n") + "\n"

	c1, c2, lines := dmp.DiffLinesToChars(oldJoined, newJoined)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var indices []int
	newIdx := 0
	for _, d := range diffs {
		count := len(strings.Fields(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			newIdx += count
		case diffmatchpatch.DiffInsert:
			for j := 0; j < count; j++ {
				indices = append(indices, newIdx+j)
			}
			newIdx += count
		case diffmatchpatch.DiffDelete:
			// removed words only exist in the old sentence
		}
	}
	return indices
}

// boldedContext renders the changed block with two words of context on each
// side, wrapping the inserted words in <b> tags for Telegram HTML mode.
func boldedContext(newWords []string, inserted []int) string {
	first := inserted[0]
	last := inserted[len(inserted)-1]

	start := first - contextWords
	if start < 0 {
		start = 0
	}
	end := last + contextWords + 1
	if end > len(newWords) {
		end = len(newWords)
	}

	insertedSet := make(map[int]struct{}, len(inserted))
	for _, idx := range inserted {
		insertedSet[idx] = struct{}{}
	}

	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if _, ok := insertedSet[i]; ok {
			parts = append(parts, "<b>"+newWords[i]+"</b>")
		} else {
			parts = append(parts, newWords[i])
		}
	}
	return strings.Join(parts, " ")
}
