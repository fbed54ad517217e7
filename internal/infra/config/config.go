package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken     string
	DatabaseURL       string
	LogLevel          string
	Environment       string
	AutoCloseInterval time.Duration // how often the auto-close scheduler checks for overdue shifts
	DailyReportCron   string        // cron spec for the daily business report job
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	intervalStr := os.Getenv("AUTO_CLOSE_CHECK_INTERVAL")
	if intervalStr == "" {
		cfg.AutoCloseInterval = 60 * time.Second // Default: check every minute
	} else {
		seconds, err := strconv.Atoi(intervalStr)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid AUTO_CLOSE_CHECK_INTERVAL: %q", intervalStr)
		}
		cfg.AutoCloseInterval = time.Duration(seconds) * time.Second
	}

	cfg.DailyReportCron = os.Getenv("DAILY_REPORT_CRON_SPEC")
	if cfg.DailyReportCron == "" {
		cfg.DailyReportCron = "0 20 * * *" // Default: 8 PM daily
	}

	return cfg, nil
}
