package notify

import (
	"fmt"
	"strings"

	"go-ezynotify/internal/models"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageLen = 4096

// historyLimit caps how many previous changes a detailed message replays.
const historyLimit = 5

// FormatKeywordAlert builds the HTML message for one or more keyword hits
// on a single page.
func FormatKeywordAlert(url string, hits []models.KeywordHit) string {
	if len(hits) == 1 {
		return fmt.Sprintf("🔔 <b>Keyword Found!</b>\n\n"+
			"<b>Keyword:</b> %s\n"+
			"<b>URL:</b> %s\n"+
			"<b>Found at:</b> %s",
			hits[0].Keyword, url, hits[0].FoundAt)
	}

	var list strings.Builder
	for _, hit := range hits {
		fmt.Fprintf(&list, "• %s\n", hit.Keyword)
	}

	return fmt.Sprintf("🔔 <b>Multiple Keywords Found!</b>\n\n"+
		"<b>Keywords:</b>\n%s\n"+
		"<b>URL:</b> %s\n"+
		"<b>Found at:</b> %s",
		list.String(), url, hits[len(hits)-1].FoundAt)
}

// FormatChangeAlertBrief is the low-noise change notice for rows that have
// detailed updates turned off.
func FormatChangeAlertBrief(url string) string {
	return fmt.Sprintf("🔄 <b>Website Changes Detected</b>\n\n"+
		"<b>URL:</b> %s\n"+
		"<b>Changes detected at:</b> %s\n\n"+
		"ℹ️ Detailed updates are available but not shown. Enable detailed updates to see them.",
		url, models.Now())
}

// FormatChangeAlertDetailed lists the changes found this run plus up to
// five previous changes, truncated to Telegram's message limit.
func FormatChangeAlertDetailed(url string, newChanges, history []models.ChangeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔄 <b>Website Changes Detected</b>\n\n<b>URL:</b> %s\n\n", url)

	if len(newChanges) > 0 {
		b.WriteString("<b>New Changes:</b>\n")
		writeChangeList(&b, newChanges)
		b.WriteString("\n")
	}

	if len(history) > 0 {
		start := len(history) - historyLimit
		if start < 0 {
			start = 0
		}
		b.WriteString("<b>Previous Changes:</b>\n")
		writeChangeList(&b, history[start:])
	}

	return Truncate(b.String())
}

func writeChangeList(b *strings.Builder, changes []models.ChangeRecord) {
	for _, change := range changes {
		emoji := "🟢"
		if change.Action != "added" {
			emoji = "🔴"
		}
		fmt.Fprintf(b, "%s <b>%s:</b> %s\n", emoji, titleCase(change.Action), change.Change)
		if change.Context != "" {
			fmt.Fprintf(b, "   <i>Context:</i> %s\n", change.Context)
		}
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Truncate keeps a message under Telegram's 4096-character limit, cutting
// on rune boundaries.
func Truncate(message string) string {
	runes := []rune(message)
	if len(runes) <= maxMessageLen {
		return message
	}
	return string(runes[:4000]) + "\n\n... (message truncated due to length)"
}
