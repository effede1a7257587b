package main

import (
	"fmt"
	"log"

	"go-ezynotify/internal/browser"
	"go-ezynotify/internal/config"
	"go-ezynotify/internal/scraper"
)

func main() {
	fmt.Println("🌐 Testing Browser Manager...")

	cfg := config.Load()

	pm, err := browser.NewPlaywright(cfg)
	if err != nil {
		log.Fatalf("Failed to create Playwright: %v", err)
	}
	defer pm.Close()

	fmt.Println("✅ Playwright started")

	browserCtx, err := pm.NewContext(nil)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer browserCtx.Close()

	fmt.Println("✅ Browser context created")

	page, err := browserCtx.NewPage()
	if err != nil {
		log.Fatalf("Failed to create page: %v", err)
	}

	fmt.Println("🔍 Fetching example.com...")
	text, err := scraper.NewPageFetcher(cfg).PageText(page, "https://example.com/")
	if err != nil {
		log.Fatalf("Failed to fetch page text: %v", err)
	}

	fmt.Printf("✅ Got %d characters of body text\n", len(text))
	if len(text) > 120 {
		text = text[:120] + "..."
	}
	fmt.Printf("   %s\n", text)
	fmt.Println("✨ Test complete!")
}
