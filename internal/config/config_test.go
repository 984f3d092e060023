package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "CLERK_SECRET_KEY", "ENV", "MIGRATIONS_PATH", "WAGER_RULES_PATH"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.MigrationsPath != "file://migrations" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RulesPath != "" {
		t.Fatalf("expected no rules path, got %q", cfg.RulesPath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/golf_wagers")
	t.Setenv("ENV", "production")
	t.Setenv("MIGRATIONS_PATH", "file:///srv/migrations")
	t.Setenv("WAGER_RULES_PATH", "/etc/wagers.yaml")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://localhost/golf_wagers" || cfg.Env != "production" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MigrationsPath != "file:///srv/migrations" || cfg.RulesPath != "/etc/wagers.yaml" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
}

func TestRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("snake_putt_threshold: 4\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := (&Config{RulesPath: path}).Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rules.SnakePuttThreshold != 4 {
		t.Fatalf("expected the override to apply, got %+v", rules)
	}

	if _, err := (&Config{RulesPath: filepath.Join(t.TempDir(), "missing.yaml")}).Rules(); err == nil {
		t.Fatal("expected a missing rules file to fail")
	}
}
