package scraper

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-ezynotify/internal/config"
	"go-ezynotify/utils"

	"github.com/playwright-community/playwright-go"
)

// ErrBlocked means the page served a bot challenge instead of content.
var ErrBlocked = errors.New("page blocked by bot protection")

type PageFetcher struct {
	cfg   *config.Config
	shots *utils.ScreenshotDebugger
}

func NewPageFetcher(cfg *config.Config) *PageFetcher {
	return &PageFetcher{
		cfg:   cfg,
		shots: utils.NewScreenshotDebugger(),
	}
}

func isChallengeTitle(title string) bool {
	return strings.Contains(title, "Cloudflare") ||
		strings.Contains(title, "Attention Required") ||
		strings.Contains(title, "Just a moment")
}

// PageText renders url in the given page and returns the normalized body
// text. JavaScript-heavy pages get a settle delay after DOMContentLoaded.
func (f *PageFetcher) PageText(page playwright.Page, url string) (string, error) {
	log.Printf("🌐 Fetching URL: %s", url)

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(f.cfg.NavTimeoutMs)),
	}); err != nil {
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	//wait for the body to exist before reading anything
	body := page.Locator("body")
	if err := body.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(10000),
	}); err != nil {
		return "", fmt.Errorf("body never appeared: %w", err)
	}

	//Cloudflare check: give the challenge a moment to clear, then bail
	if title, _ := page.Title(); isChallengeTitle(title) {
		log.Println("    🛡️ Cloudflare challenge detected. Waiting 7s...")
		time.Sleep(7 * time.Second)
		if title, _ := page.Title(); isChallengeTitle(title) {
			f.shots.CaptureAndLog(page, "cloudflare-challenge", "🚨 Blocked by Cloudflare: "+url)
			return "", ErrBlocked
		}
	}

	//Captcha check
	captchaCount, _ := page.Locator(".captcha, .recaptcha, [data-captcha]").Count()
	if captchaCount > 0 {
		f.shots.CaptureAndLog(page, "captcha-detected", "🚨 CAPTCHA detected: "+url)
		return "", ErrBlocked
	}

	//extra time for JavaScript to populate the page
	time.Sleep(time.Duration(f.cfg.SettleDelayMs) * time.Millisecond)

	//light human behavior to trigger lazy-loaded sections
	utils.MouseJiggle(page)
	utils.GentleScroll(page)
	utils.RandomDelay(200, 500)

	text, err := body.InnerText()
	if err != nil {
		return "", fmt.Errorf("could not read body text: %w", err)
	}

	normalized := NormalizeText(text)
	if normalized == "" {
		return "", fmt.Errorf("page rendered with empty body: %s", url)
	}
	return normalized, nil
}
