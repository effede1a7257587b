package main

import (
	"fmt"

	"go-ezynotify/internal/config"
)

func main() {
	fmt.Println("🔧 Testing config loading...")
	cfg := config.Load()
	fmt.Printf("✅ Config loaded successfully!\n")
	fmt.Printf("   Telegram Token: %s...\n", cfg.TelegramToken[:10])
	fmt.Printf("   Updates token set: %v\n", cfg.TelegramUpdatesToken != "")
	fmt.Printf("   Headless: %v\n", cfg.IsHeadless())
	fmt.Printf("   Nav timeout: %dms, settle: %dms, row delay: %dms\n",
		cfg.NavTimeoutMs, cfg.SettleDelayMs, cfg.RowDelayMs)
	fmt.Printf("   Cookies Path: %s\n", cfg.CookiesPath)
	fmt.Printf("   Cache Path: %s\n", cfg.CachePath)
}
