package dedup

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type sentEntry struct {
	Fingerprint string `json:"fingerprint"`
	Timestamp   int64  `json:"timestamp"`
}

// AlertCache remembers which notifications already went out. A CI re-run
// after a failed database write would otherwise re-send the same alert.
type AlertCache struct {
	mu       sync.Mutex
	filePath string
	sent     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// KeywordFingerprint identifies a keyword alert for one check row.
func KeywordFingerprint(checkID, keyword string) string {
	return fmt.Sprintf("%s|keyword|%s", checkID, keyword)
}

// ChangeFingerprint identifies a change alert by the content it announced.
func ChangeFingerprint(checkID, newReference string) string {
	return fmt.Sprintf("%s|update|%x", checkID, sha1.Sum([]byte(newReference)))
}

// NewAlertCache creates or loads the sent-alert cache
func NewAlertCache(cacheDir string) *AlertCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &AlertCache{
		filePath: filepath.Join(cacheDir, "sent_alerts.json"),
		sent:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSent checks if an alert fingerprint has already been delivered
func (ac *AlertCache) IsSent(fingerprint string) bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	_, exists := ac.sent[fingerprint]
	return exists
}

func (ac *AlertCache) Add(fingerprints []string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, fp := range fingerprints {
		if _, exists := ac.sent[fp]; !exists {
			ac.sent[fp] = now
			changed = true
		}
	}

	if changed {
		ac.save()
	}
}

// Forget removes fingerprints once the state write they guarded has
// succeeded, so the cache only ever covers the failed-write window and a
// page returning to previously announced content can alert again.
func (ac *AlertCache) Forget(fingerprints []string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	changed := false
	for _, fp := range fingerprints {
		if _, exists := ac.sent[fp]; exists {
			delete(ac.sent, fp)
			changed = true
		}
	}

	if changed {
		ac.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days
func (ac *AlertCache) load() {
	data, err := os.ReadFile(ac.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read sent_alerts.json: %v", err)
		}
		return
	}

	var entries []sentEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse sent_alerts.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			ac.sent[e.Fingerprint] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously sent alerts (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (ac *AlertCache) save() {
	entries := make([]sentEntry, 0, len(ac.sent))
	for fp, ts := range ac.sent {
		entries = append(entries, sentEntry{Fingerprint: fp, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal sent alerts: %v", err)
		return
	}
	if err := os.WriteFile(ac.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write sent_alerts.json: %v", err)
	}
}
