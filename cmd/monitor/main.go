package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-ezynotify/internal/browser"
	"go-ezynotify/internal/config"
	"go-ezynotify/internal/database"
	"go-ezynotify/internal/dedup"
	"go-ezynotify/internal/monitor"
	"go-ezynotify/internal/notify"
	"go-ezynotify/internal/scraper"
)

func main() {
	//load config
	cfg := config.Load()
	log.Println("🔧 Config loaded.")

	//setup context with timeout = 10 mins (the CI job gets killed anyway)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	//connect to Supabase
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()
	log.Println("🗄️ Database connected.")

	//init telegram notifier (alerts bot + updates bot)
	notifier, err := notify.NewNotifier(cfg.TelegramToken, cfg.TelegramUpdatesToken)
	if err != nil {
		log.Fatalf("❌ Failed to init Telegram bots: %v", err)
	}
	log.Println("🤖 Telegram bots initialized.")

	log.Println("🚀 Starting ezynotify run...")

	//init playwright manager
	pwManager, err := browser.NewPlaywright(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init Playwright: %v", err)
	}
	defer pwManager.Close()

	//load optional cookies for pages behind a login
	cookies, loadErr := browser.LoadCookies(filepath.Join(cfg.CookiesPath, "cookies.json"))
	if loadErr != nil {
		if !os.IsNotExist(loadErr) {
			log.Printf("⚠️ Could not load cookies: %v. Continuing.", loadErr)
		}
		cookies = nil
	} else {
		log.Printf("🍪 Loaded %d cookies", len(cookies))
	}

	browserCtx, err := pwManager.NewContext(cookies)
	if err != nil {
		log.Fatalf("❌ Failed to create browser context: %v", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("❌ Failed to create new page: %v", err)
	}
	log.Println("✅ Browser initialized successfully!")

	//fetch through the browser, fall back to plain HTTP when it fails
	fetcher := scraper.NewPageFetcher(cfg)
	fetch := func(ctx context.Context, url string) (string, error) {
		text, err := fetcher.PageText(page, url)
		if err == nil {
			return text, nil
		}
		log.Printf("⚠️ Browser fetch failed (%v), trying plain HTTP", err)
		return scraper.FallbackText(ctx, url, cfg.UserAgent)
	}

	cache := dedup.NewAlertCache(cfg.CachePath)
	runner := monitor.NewRunner(repo, notifier, fetch, cache,
		time.Duration(cfg.RowDelayMs)*time.Millisecond)

	if err := runner.Run(ctx); err != nil {
		log.Fatalf("❌ Run failed: %v", err)
	}
}
