// Package config loads runtime configuration from the environment.
// A .env file in the working directory is read first, for local development;
// real environment variables always win.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/trentd187/golf-wagers/internal/games"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port           string // HTTP listen port, default 8080
	DatabaseURL    string // PostgreSQL connection string; required
	ClerkSecretKey string // Clerk backend key, for token verification once it is enabled
	Env            string // "development", "staging" or "production"
	MigrationsPath string // migrate source URL, default file://migrations
	RulesPath      string // Optional YAML file overriding the wager rule table
}

// Load reads configuration from environment variables. A missing .env file is fine.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ClerkSecretKey: os.Getenv("CLERK_SECRET_KEY"),
		Env:            getenv("ENV", "development"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "file://migrations"),
		RulesPath:      os.Getenv("WAGER_RULES_PATH"),
	}
}

// Rules loads the wager rule table: the defaults, overridden by RulesPath if set.
func (c *Config) Rules() (games.Rules, error) {
	return games.LoadRules(c.RulesPath)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
