// Package config loads runtime configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port            int
	DBPath          string
	DefaultCurrency string
	ReminderLead    int // days before the due date a reminder fires

	// Optional spreadsheet export. Empty values disable it.
	SheetsSpreadsheetID string
	SheetsAPIKey        string
	SheetsRange         string
}

// Load reads configuration from .env (if any) and the environment.
func Load() Config {
	// Missing .env is fine; explicit env vars always win anyway.
	_ = godotenv.Load()

	return Config{
		Port:            envInt("PORT", 8080),
		DBPath:          envStr("DB_PATH", "netdebt.db"),
		DefaultCurrency: envStr("DEFAULT_CURRENCY", "USD"),
		ReminderLead:    envInt("REMINDER_LEAD_DAYS", 3),

		SheetsSpreadsheetID: os.Getenv("SHEETS_SPREADSHEET_ID"),
		SheetsAPIKey:        os.Getenv("SHEETS_API_KEY"),
		SheetsRange:         envStr("SHEETS_RANGE", "Sheet1!A:H"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
