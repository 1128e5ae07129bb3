package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect covers what differs between the databases run history can live in
type Dialect interface {
	DriverName() string

	// DSN builds the driver connection string, adding the options the run
	// tables depend on (timestamps, foreign keys) when the operator left them out
	DSN(config DialectConfig) (string, error)

	// RewriteQuery converts ? placeholders when the driver wants another syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId is false when inserts need a RETURNING clause
	SupportsLastInsertId() bool

	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the migrations directory for this dialect
	MigrationsSubdir() string

	CreateMigrationsTableQuery() string

	// BoolValue returns a boolean literal for queries that compare flags
	BoolValue(b bool) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// SQLite file path or in-memory name
	Path string

	// PostgreSQL or MySQL connection string
	URL string
}

// poolSettings sizes a connection pool
type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// serverPool is used for PostgreSQL and MySQL. One quiz session writes at
// most one run at a time, so a handful of connections covers history reads
// running alongside it.
var serverPool = poolSettings{
	maxOpen:     10,
	maxIdle:     2,
	maxLifetime: 5 * time.Minute,
	maxIdleTime: time.Minute,
}

func (p poolSettings) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// A ? inside a quoted literal or identifier is left alone.
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
