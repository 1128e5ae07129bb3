package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// DSN turns on foreign keys for every pooled connection, which the answer
// table's ON DELETE CASCADE relies on, and gives file databases a busy
// timeout so concurrent run writes wait for the lock instead of failing.
// Options already present in the path are kept.
func (d *SQLiteDialect) DSN(config DialectConfig) (string, error) {
	if config.Path == "" {
		return "", errors.New("DB_PATH is required for sqlite")
	}

	options := []string{"_foreign_keys=1"}
	if !IsMemoryPath(config.Path) {
		options = append(options, "_busy_timeout=5000")
	}

	dsn := config.Path
	for _, opt := range options {
		key, _, _ := strings.Cut(opt, "=")
		if strings.Contains(dsn, key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + opt
	}
	return dsn, nil
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// SQLite allows one writer; a small pool avoids piling up busy waits
	poolSettings{
		maxOpen:     4,
		maxIdle:     2,
		maxLifetime: 30 * time.Minute,
		maxIdleTime: 5 * time.Minute,
	}.apply(db)

	// WAL is a no-op for in-memory databases; SQLite reports "memory" instead
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *SQLiteDialect) BoolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
