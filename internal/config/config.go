package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	ReportTime    string // HH:MM of the morning digest
	WorkdayEnd    string // HH:MM of the day-close job
	KeywordsFile  string // optional YAML overriding the keyword lists
}

// Load reads configuration from environment variables, with a .env file
// merged in when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReportTime:    strings.TrimSpace(os.Getenv("REPORT_TIME")),
		WorkdayEnd:    strings.TrimSpace(os.Getenv("WORKDAY_END")),
		KeywordsFile:  strings.TrimSpace(os.Getenv("KEYWORDS_FILE")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskboard.db"
	}
	if cfg.ReportTime == "" {
		cfg.ReportTime = "09:00"
	}
	if cfg.WorkdayEnd == "" {
		cfg.WorkdayEnd = "18:30"
	}

	if err := validateClock(cfg.ReportTime); err != nil {
		return cfg, fmt.Errorf("REPORT_TIME: %w", err)
	}
	if err := validateClock(cfg.WorkdayEnd); err != nil {
		return cfg, fmt.Errorf("WORKDAY_END: %w", err)
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func validateClock(value string) error {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return fmt.Errorf("%q is not HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("%q is not HH:MM", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("%q is not HH:MM", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%q is not a valid clock time", value)
	}
	return nil
}
