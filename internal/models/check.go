package models

import (
	"time"
)

// TimeLayout is the timestamp format stored alongside keyword hits and
// change records.
const TimeLayout = "2006-01-02 15:04:05"

// KeywordSet is the shape of the keywords jsonb column.
type KeywordSet struct {
	Keywords []string `json:"keywords"`
}

// KeywordHit records a keyword that was found on the target page.
type KeywordHit struct {
	Keyword string `json:"keyword"`
	FoundAt string `json:"foundAt"`
}

// ChangeRecord is one detected content change, with the changed words
// bolded inside a short context snippet.
type ChangeRecord struct {
	Change  string `json:"change"`
	Action  string `json:"action"`
	Context string `json:"context"`
	Time    string `json:"time"`
}

// Check is one row of the ezynotify table: a target page plus the
// stored state from previous runs.
type Check struct {
	ID                        string         `json:"id"`
	URL                       string         `json:"url"`
	Keywords                  KeywordSet     `json:"keywords"`
	TelegramID                int64          `json:"telegramID"`
	Reference                 string         `json:"reference"`
	IsUpdated                 bool           `json:"isUpdated"`
	FoundKeywords             []KeywordHit   `json:"foundKeyword"`
	ShouldContinueCheck       bool           `json:"shouldContinueCheck"`
	Updates                   []ChangeRecord `json:"Updates"`
	ShouldSendDetailedUpdates bool           `json:"shouldSendDetailedUpdates"`
	CheckUpdates              bool           `json:"checkUpdates"`
	Completed                 bool           `json:"completed"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
}

// Now returns the current time in the stored timestamp format.
func Now() string {
	return time.Now().Format(TimeLayout)
}
