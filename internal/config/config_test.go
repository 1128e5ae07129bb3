package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_TYPE", "DB_PATH", "CATALOG_PATH", "QUIZ_SEED", "DEBUG", "SES_FROM_EMAIL"} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())

	cfg := Load()
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.DatabasePath != defaultDatabasePath {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, defaultDatabasePath)
	}
	if cfg.CatalogPath != "" || cfg.Seed != 0 || cfg.Debug || cfg.SESFromEmail != "" {
		t.Errorf("unexpected non-default config: %+v", cfg)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("QUIZ_SEED", "42")
	t.Setenv("DEBUG", "true")
	t.Setenv("CATALOG_PATH", "/tmp/bank.json")

	cfg := Load()
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.CatalogPath != "/tmp/bank.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SUMMARY_EMAIL_TO", "")
	t.Setenv("PORT", "7070")

	env := "SUMMARY_EMAIL_TO=coach@example.com\nPORT=1111\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv only fills variables that are unset
	os.Unsetenv("SUMMARY_EMAIL_TO")
	t.Cleanup(func() { os.Unsetenv("SUMMARY_EMAIL_TO") })

	cfg := Load()
	if cfg.SummaryEmailTo != "coach@example.com" {
		t.Errorf("SummaryEmailTo = %q, want value from .env", cfg.SummaryEmailTo)
	}
	if cfg.ServerPort != "7070" {
		t.Errorf("ServerPort = %q, environment should win over .env", cfg.ServerPort)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("QUIZ_SEED", "not-a-number")
	t.Setenv("DEBUG", "maybe")

	cfg := Load()
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.Debug {
		t.Error("Debug should fall back to false")
	}
}
