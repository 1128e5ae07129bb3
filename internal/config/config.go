package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// defaultDatabasePath keeps run history in a shared in-memory SQLite
// database, so nothing outlives the process unless DB_PATH says otherwise
const defaultDatabasePath = "file:interviewsim?mode=memory&cache=shared"

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	// MigrationsPath overrides the migrations compiled into the binary
	MigrationsPath string

	// CatalogPath points at a JSON question bank; empty means the embedded one
	CatalogPath string
	// Seed fixes the shuffle/lifeline random source when non-zero
	Seed int64

	AWSRegion      string
	SESFromEmail   string
	SESFromName    string
	SummaryEmailTo string

	// RateLimitPerMinute caps session actions per client; zero disables it
	RateLimitPerMinute int

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to read .env: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", defaultDatabasePath),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		CatalogPath:    getEnv("CATALOG_PATH", ""),
		Seed:           getEnvInt64("QUIZ_SEED", 0),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SESFromName:    getEnv("SES_FROM_NAME", "Interview Simulator"),
		SummaryEmailTo: getEnv("SUMMARY_EMAIL_TO", ""),
		Debug:          getEnvBool("DEBUG", false),

		RateLimitPerMinute: int(getEnvInt64("RATE_LIMIT_PER_MINUTE", 120)),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, value, defaultValue)
		return defaultValue
	}
	return b
}
