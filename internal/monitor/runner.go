package monitor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-ezynotify/internal/dedup"
	"go-ezynotify/internal/diff"
	"go-ezynotify/internal/keyword"
	"go-ezynotify/internal/models"
)

// Store is the slice of the database repository the runner needs.
type Store interface {
	ListActiveChecks(ctx context.Context) ([]models.Check, error)
	ApplyCheckResult(ctx context.Context, c *models.Check) error
}

// Notifier delivers alerts for a processed row.
type Notifier interface {
	SendKeywordAlert(chatID int64, url string, hits []models.KeywordHit) error
	SendChangeAlert(chatID int64, url string, newChanges, history []models.ChangeRecord, detailed bool) error
}

// TextFetcher returns the normalized text of a rendered page.
type TextFetcher func(ctx context.Context, url string) (string, error)

// Runner processes every active check row once. It is built fresh on each
// scheduled invocation; all durable state lives in the database.
type Runner struct {
	store    Store
	notifier Notifier
	fetch    TextFetcher
	cache    *dedup.AlertCache
	rowDelay time.Duration
}

func NewRunner(store Store, notifier Notifier, fetch TextFetcher, cache *dedup.AlertCache, rowDelay time.Duration) *Runner {
	return &Runner{
		store:    store,
		notifier: notifier,
		fetch:    fetch,
		cache:    cache,
		rowDelay: rowDelay,
	}
}

// Run lists the active rows and processes them sequentially with a small
// delay between rows. A row that fails is logged and skipped; it keeps its
// stored state and is retried on the next scheduled run.
func (r *Runner) Run(ctx context.Context) error {
	log.Println("⏳ Fetching check rows...")
	checks, err := r.store.ListActiveChecks(ctx)
	if err != nil {
		return fmt.Errorf("could not list checks: %w", err)
	}

	if len(checks) == 0 {
		log.Println("No active checks found.")
		return nil
	}

	log.Printf("🔍 Found %d rows to process", len(checks))
	for i := range checks {
		check := &checks[i]
		log.Printf("🔹 Processing row %d/%d - URL: %s", i+1, len(checks), check.URL)
		if err := r.ProcessCheck(ctx, check); err != nil {
			log.Printf("⚠️ Row failed, keeping stored state: %v", err)
		}
		if i < len(checks)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.rowDelay):
			}
		}
	}
	log.Println("🏁 Run finished.")
	return nil
}

// ProcessCheck runs the whole pipeline for one row: fetch, keyword scan,
// change diff, notifications, then a single state write.
func (r *Runner) ProcessCheck(ctx context.Context, c *models.Check) error {
	if c.Completed {
		log.Printf("⏭️ Skipping completed check for URL: %s", c.URL)
		return nil
	}

	keywords := c.Keywords.Keywords
	if len(keywords) == 0 && !c.CheckUpdates {
		log.Printf("⏭️ Skipping row - no keywords and checkUpdates is false for URL: %s", c.URL)
		return nil
	}

	// A fetch failure skips the row entirely: treating an unreachable page
	// as empty content would wipe the reference and spam change alerts.
	text, err := r.fetch(ctx, c.URL)
	if err != nil {
		return fmt.Errorf("fetch failed for %s: %w", c.URL, err)
	}

	oldReference := c.Reference
	contentChanged := text != oldReference
	dirty := false

	// fingerprints of alerts sent during this row; they only need to
	// survive in the cache if the state write below fails
	var sent []string

	if contentChanged {
		c.Reference = text
		dirty = true
	}

	if len(keywords) > 0 {
		changed, fingerprints := r.scanKeywords(c, text)
		dirty = changed || dirty
		sent = append(sent, fingerprints...)
	}

	if c.CheckUpdates {
		if strings.TrimSpace(oldReference) != "" && contentChanged {
			sent = append(sent, r.recordChanges(c, oldReference, text)...)
			dirty = true
		} else {
			log.Println("✅ No change detected or no reference to compare against.")
		}
	}

	if dirty {
		if err := r.store.ApplyCheckResult(ctx, c); err != nil {
			return err
		}
		// the write stuck, so a re-run cannot double-send these
		r.cache.Forget(sent)
		log.Printf("📤 Updated record for URL: %s", c.URL)
	}
	return nil
}

// scanKeywords matches pending keywords against the page text, sends the
// alert and moves hits from pending to found. Reports whether state changed
// plus the alert fingerprints recorded for this row.
func (r *Runner) scanKeywords(c *models.Check, text string) (bool, []string) {
	hits, remaining := keyword.Scan(text, c.Keywords.Keywords)
	if len(hits) == 0 {
		return false, nil
	}
	log.Printf("✅ Keywords found: %v", hits)

	var sent []string
	if c.TelegramID != 0 {
		fresh, fingerprints := r.unsentHits(c.ID, hits)
		if len(fresh) > 0 {
			if err := r.notifier.SendKeywordAlert(c.TelegramID, c.URL, fresh); err != nil {
				log.Printf("⚠️ Failed to send keyword alert: %v", err)
			} else {
				r.cache.Add(fingerprints)
				sent = fingerprints
			}
		}
	}

	c.Keywords.Keywords = remaining
	if remaining == nil {
		c.Keywords.Keywords = []string{}
	}
	c.FoundKeywords = append(c.FoundKeywords, hits...)

	if len(remaining) == 0 && !c.ShouldContinueCheck {
		c.Completed = true
		log.Println("🏁 All keywords found and shouldContinueCheck is false. Marking as completed.")
	}
	return true, sent
}

// unsentHits filters out hits whose alert already went out on a previous run.
func (r *Runner) unsentHits(checkID string, hits []models.KeywordHit) ([]models.KeywordHit, []string) {
	var fresh []models.KeywordHit
	var fingerprints []string
	for _, hit := range hits {
		fp := dedup.KeywordFingerprint(checkID, hit.Keyword)
		if r.cache.IsSent(fp) {
			continue
		}
		fresh = append(fresh, hit)
		fingerprints = append(fingerprints, fp)
	}
	return fresh, fingerprints
}

// recordChanges diffs the stored reference against the new text, appends
// the change log and sends the change alert. Returns the alert fingerprints
// recorded for this row.
func (r *Runner) recordChanges(c *models.Check, oldReference, text string) []string {
	log.Println("🟡 Change detected... comparing for diff")

	history := c.Updates
	records := diff.Changes(oldReference, text)
	if len(records) > 0 {
		for _, rec := range records {
			log.Printf(" - [%s] %s at %s", rec.Action, rec.Change, rec.Time)
		}
		c.Updates = append(c.Updates, records...)
	}
	c.IsUpdated = true

	var sent []string
	if c.TelegramID != 0 {
		fp := dedup.ChangeFingerprint(c.ID, text)
		if !r.cache.IsSent(fp) {
			if err := r.notifier.SendChangeAlert(c.TelegramID, c.URL, records, history, c.ShouldSendDetailedUpdates); err != nil {
				log.Printf("⚠️ Failed to send change alert: %v", err)
			} else {
				r.cache.Add([]string{fp})
				sent = append(sent, fp)
			}
		}
	}
	return sent
}
