package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-ezynotify/internal/dedup"
	"go-ezynotify/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	checks   []models.Check
	applied  []models.Check
	applyErr error
}

func (s *fakeStore) ListActiveChecks(ctx context.Context) ([]models.Check, error) {
	return s.checks, nil
}

func (s *fakeStore) ApplyCheckResult(ctx context.Context, c *models.Check) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, *c)
	return nil
}

type keywordAlert struct {
	chatID int64
	url    string
	hits   []models.KeywordHit
}

type changeAlert struct {
	chatID   int64
	url      string
	changes  []models.ChangeRecord
	history  []models.ChangeRecord
	detailed bool
}

type fakeNotifier struct {
	keywordAlerts []keywordAlert
	changeAlerts  []changeAlert
}

func (n *fakeNotifier) SendKeywordAlert(chatID int64, url string, hits []models.KeywordHit) error {
	n.keywordAlerts = append(n.keywordAlerts, keywordAlert{chatID, url, hits})
	return nil
}

func (n *fakeNotifier) SendChangeAlert(chatID int64, url string, newChanges, history []models.ChangeRecord, detailed bool) error {
	n.changeAlerts = append(n.changeAlerts, changeAlert{chatID, url, newChanges, history, detailed})
	return nil
}

func staticFetcher(text string, err error) TextFetcher {
	return func(ctx context.Context, url string) (string, error) {
		return text, err
	}
}

func newTestRunner(t *testing.T, store *fakeStore, notifier *fakeNotifier, fetch TextFetcher) *Runner {
	t.Helper()
	return NewRunner(store, notifier, fetch, dedup.NewAlertCache(t.TempDir()), time.Millisecond)
}

func TestProcessCheck_KeywordFound(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("now in stock: playstation 5 bundle", nil))

	check := models.Check{
		ID:         "check-1",
		URL:        "https://shop.example.com",
		TelegramID: 42,
		Keywords:   models.KeywordSet{Keywords: []string{"playstation 5", "xbox"}},
	}

	err := runner.ProcessCheck(context.Background(), &check)
	assert.NoError(t, err)

	//alert went out for the found keyword only
	assert.Len(t, notifier.keywordAlerts, 1)
	assert.Equal(t, int64(42), notifier.keywordAlerts[0].chatID)
	assert.Len(t, notifier.keywordAlerts[0].hits, 1)
	assert.Equal(t, "playstation 5", notifier.keywordAlerts[0].hits[0].Keyword)

	//hit moved from pending to found, row written once
	assert.Len(t, store.applied, 1)
	applied := store.applied[0]
	assert.Equal(t, []string{"xbox"}, applied.Keywords.Keywords)
	assert.Len(t, applied.FoundKeywords, 1)
	assert.Equal(t, "now in stock: playstation 5 bundle", applied.Reference)
	assert.False(t, applied.Completed, "a pending keyword remains")
}

func TestProcessCheck_AllKeywordsFoundCompletes(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("playstation 5 available", nil))

	check := models.Check{
		ID:         "check-1",
		URL:        "https://shop.example.com",
		TelegramID: 42,
		Keywords:   models.KeywordSet{Keywords: []string{"playstation 5"}},
	}

	assert.NoError(t, runner.ProcessCheck(context.Background(), &check))
	assert.True(t, check.Completed)
	assert.Empty(t, check.Keywords.Keywords)
}

func TestProcessCheck_ContinueCheckStaysActive(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("playstation 5 available", nil))

	check := models.Check{
		ID:                  "check-1",
		URL:                 "https://shop.example.com",
		TelegramID:          42,
		Keywords:            models.KeywordSet{Keywords: []string{"playstation 5"}},
		ShouldContinueCheck: true,
	}

	assert.NoError(t, runner.ProcessCheck(context.Background(), &check))
	assert.False(t, check.Completed)
}

func TestProcessCheck_SkipsInertRows(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("whatever", nil))

	completed := models.Check{ID: "done", Completed: true, CheckUpdates: true}
	assert.NoError(t, runner.ProcessCheck(context.Background(), &completed))

	inert := models.Check{ID: "inert", URL: "https://example.com"}
	assert.NoError(t, runner.ProcessCheck(context.Background(), &inert))

	assert.Empty(t, store.applied)
	assert.Empty(t, notifier.keywordAlerts)
	assert.Empty(t, notifier.changeAlerts)
}

func TestProcessCheck_FetchFailureKeepsState(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("", errors.New("timeout")))

	check := models.Check{
		ID:        "check-1",
		URL:       "https://flaky.example.com",
		Keywords:  models.KeywordSet{Keywords: []string{"anything"}},
		Reference: "previous content",
	}

	err := runner.ProcessCheck(context.Background(), &check)
	assert.Error(t, err)
	//stored reference untouched, nothing written
	assert.Equal(t, "previous content", check.Reference)
	assert.Empty(t, store.applied)
}

func TestProcessCheck_ChangeDetected(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("tickets on sale friday.", nil))

	check := models.Check{
		ID:                        "check-1",
		URL:                       "https://news.example.com",
		TelegramID:                42,
		CheckUpdates:              true,
		ShouldSendDetailedUpdates: true,
		Reference:                 "tickets on sale monday.",
	}

	assert.NoError(t, runner.ProcessCheck(context.Background(), &check))

	assert.True(t, check.IsUpdated)
	assert.Len(t, check.Updates, 1)
	assert.Equal(t, "friday.", check.Updates[0].Change)

	assert.Len(t, notifier.changeAlerts, 1)
	alert := notifier.changeAlerts[0]
	assert.True(t, alert.detailed)
	assert.Len(t, alert.changes, 1)
	assert.Empty(t, alert.history, "history is the log before this run")

	assert.Len(t, store.applied, 1)
	assert.Equal(t, "tickets on sale friday.", store.applied[0].Reference)
}

func TestProcessCheck_FirstRunStoresReferenceSilently(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("initial page content.", nil))

	check := models.Check{
		ID:           "check-1",
		URL:          "https://news.example.com",
		TelegramID:   42,
		CheckUpdates: true,
	}

	assert.NoError(t, runner.ProcessCheck(context.Background(), &check))

	//reference seeded, but no change alert without a baseline
	assert.Equal(t, "initial page content.", check.Reference)
	assert.False(t, check.IsUpdated)
	assert.Empty(t, notifier.changeAlerts)
	assert.Len(t, store.applied, 1)
}

func TestProcessCheck_FailedWriteSuppressesResend(t *testing.T) {
	store := &fakeStore{applyErr: errors.New("pool timeout")}
	notifier := &fakeNotifier{}
	cache := dedup.NewAlertCache(t.TempDir())
	runner := NewRunner(store, notifier, staticFetcher("playstation 5 available", nil), cache, time.Millisecond)

	fresh := func() models.Check {
		return models.Check{
			ID:         "check-1",
			URL:        "https://shop.example.com",
			TelegramID: 42,
			Keywords:   models.KeywordSet{Keywords: []string{"playstation 5"}},
		}
	}

	//first run alerts but the write fails, so the next scheduled run sees
	//the same row state again
	first := fresh()
	assert.Error(t, runner.ProcessCheck(context.Background(), &first))
	assert.Len(t, notifier.keywordAlerts, 1)
	assert.Empty(t, store.applied)

	//re-run stays quiet but completes the write
	store.applyErr = nil
	second := fresh()
	assert.NoError(t, runner.ProcessCheck(context.Background(), &second))
	assert.Len(t, notifier.keywordAlerts, 1)
	assert.Len(t, store.applied, 1)
}

func queueFetcher(texts ...string) TextFetcher {
	i := 0
	return func(ctx context.Context, url string) (string, error) {
		text := texts[i]
		if i < len(texts)-1 {
			i++
		}
		return text, nil
	}
}

func TestProcessCheck_OscillatingContentAlertsEveryTime(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	//page flips between two states across runs, every write succeeds
	runner := newTestRunner(t, store, notifier, queueFetcher(
		"price is 20 dollars.",
		"price is 10 dollars.",
		"price is 20 dollars.",
	))

	check := models.Check{
		ID:           "check-1",
		URL:          "https://shop.example.com",
		TelegramID:   42,
		CheckUpdates: true,
		Reference:    "price is 10 dollars.",
	}

	for run := 0; run < 3; run++ {
		assert.NoError(t, runner.ProcessCheck(context.Background(), &check))
	}

	//a return to previously announced content is still a change
	assert.Len(t, notifier.changeAlerts, 3)
	assert.Len(t, store.applied, 3)
}

func TestRun_ContextCancelledBetweenRows(t *testing.T) {
	store := &fakeStore{
		checks: []models.Check{
			{ID: "a", URL: "https://a.example.com",
				Keywords: models.KeywordSet{Keywords: []string{"stock"}}},
			{ID: "b", URL: "https://b.example.com",
				Keywords: models.KeywordSet{Keywords: []string{"stock"}}},
		},
	}
	notifier := &fakeNotifier{}
	runner := NewRunner(store, notifier, staticFetcher("stock here", nil),
		dedup.NewAlertCache(t.TempDir()), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	//the run stops at the inter-row delay instead of sleeping it out
	assert.Len(t, store.applied, 1)
}

func TestProcessCheck_NoChatIDNoAlert(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("playstation 5 available", nil))

	check := models.Check{
		ID:       "check-1",
		URL:      "https://shop.example.com",
		Keywords: models.KeywordSet{Keywords: []string{"playstation 5"}},
	}

	assert.NoError(t, runner.ProcessCheck(context.Background(), &check))
	assert.Empty(t, notifier.keywordAlerts)
	assert.Len(t, store.applied, 1)
}

func TestRun_ProcessesAllRows(t *testing.T) {
	store := &fakeStore{
		checks: []models.Check{
			{ID: "a", URL: "https://a.example.com", TelegramID: 1,
				Keywords: models.KeywordSet{Keywords: []string{"stock"}}},
			{ID: "b", URL: "https://b.example.com", TelegramID: 2,
				CheckUpdates: true, Reference: "old words here."},
		},
	}
	notifier := &fakeNotifier{}
	runner := newTestRunner(t, store, notifier, staticFetcher("stock and new words here.", nil))

	assert.NoError(t, runner.Run(context.Background()))

	assert.Len(t, store.applied, 2)
	assert.Len(t, notifier.keywordAlerts, 1)
	assert.Len(t, notifier.changeAlerts, 1)
}
