// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	DatabaseURL          string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken        string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramUpdatesToken string `yaml:"telegram_updates_token" env:"TELEGRAM_UPDATES_BOT_TOKEN"`
	//Browser behavior
	UserAgent     string `yaml:"user_agent"`
	Headless      *bool  `yaml:"headless"`
	NavTimeoutMs  int    `yaml:"nav_timeout_ms"`
	SettleDelayMs int    `yaml:"settle_delay_ms"`
	RowDelayMs    int    `yaml:"row_delay_ms"`
	//Paths
	CookiesPath string `yaml:"cookies_path"`
	CachePath   string `yaml:"cache_path"`
}

// IsHeadless defaults to true unless the config explicitly turns it off
func (c *Config) IsHeadless() bool {
	if c.Headless == nil {
		return true
	}
	return *c.Headless
}

func Load() *Config {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
	}

	//Override with env vars
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if token := os.Getenv("TELEGRAM_UPDATES_BOT_TOKEN"); token != "" {
		cfg.TelegramUpdatesToken = token
	}

	//Set default values if not set
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	if cfg.NavTimeoutMs == 0 {
		cfg.NavTimeoutMs = 30000
	}

	if cfg.SettleDelayMs == 0 {
		cfg.SettleDelayMs = 2000
	}

	if cfg.RowDelayMs == 0 {
		cfg.RowDelayMs = 1000
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	//The updates bot is optional; fall back to the main bot token
	if cfg.TelegramUpdatesToken == "" {
		cfg.TelegramUpdatesToken = cfg.TelegramToken
	}

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg
}
