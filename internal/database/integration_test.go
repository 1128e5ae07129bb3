package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"interviewsim/internal/config"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	// Skip if not in integration test mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test_integration.db")

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Test that tables were created by migrations
	for _, table := range []string{"migrations", "quiz_runs", "quiz_run_answers"} {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running migrations again is a no-op
	if err := db.RunMigrations(""); err != nil {
		t.Fatalf("Second RunMigrations failed: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 recorded migrations, got %d", count)
	}
}

// TestMigrationsFromDisk tests loading migrations from MIGRATIONS_PATH
func TestMigrationsFromDisk(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sqlite"), 0o755); err != nil {
		t.Fatal(err)
	}
	migration := "CREATE TABLE custom_runs (id INTEGER PRIMARY KEY);\n"
	if err := os.WriteFile(filepath.Join(dir, "sqlite", "001_custom.sql"), []byte(migration), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := InitializeWithConfig(&config.Config{DatabaseType: "sqlite", DatabasePath: filepath.Join(t.TempDir(), "disk.db")})
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(dir); err != nil {
		t.Fatalf("RunMigrations(%s) failed: %v", dir, err)
	}
	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='custom_runs'").Scan(&name); err != nil {
		t.Errorf("custom_runs not created: %v", err)
	}

	if err := db.RunMigrations(t.TempDir()); err == nil {
		t.Error("Expected error for a directory without sqlite migrations")
	}
}

// TestSharedMemoryDatabase tests that the default in-memory store keeps its data between queries
func TestSharedMemoryDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := InitializeWithConfig(&config.Config{DatabaseType: "sqlite", DatabasePath: "file:dbtest_shared?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(""); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	id, err := db.ExecReturningID(`INSERT INTO quiz_runs
		(run_id, topic, score, lives_left, total_questions, end_reason, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"run-1", "Networking", 33, 3, 3, "questions_exhausted", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	var score int
	if err := db.QueryRow("SELECT score FROM quiz_runs WHERE id = ?", id).Scan(&score); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if score != 33 {
		t.Errorf("Expected score 33, got %d", score)
	}
}

func TestUnsupportedDatabaseType(t *testing.T) {
	if _, err := InitializeWithConfig(&config.Config{DatabaseType: "oracle"}); err == nil {
		t.Fatal("Expected error for unsupported database type")
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "test_transactions.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	insert := `INSERT INTO quiz_runs
		(run_id, topic, score, lives_left, total_questions, end_reason, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Test successful transaction
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.ExecReturningID(insert, "committed", "Networking", 10, 3, 3, "questions_exhausted", time.Now(), time.Now()); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM quiz_runs WHERE run_id = ?", "committed").Scan(&count); err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 run, got %d", count)
	}

	// Test rollback
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	if _, err := tx2.Exec(insert, "rolled-back", "Networking", 10, 3, 3, "questions_exhausted", time.Now(), time.Now()); err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM quiz_runs WHERE run_id = ?", "rolled-back").Scan(&count); err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 runs after rollback, got %d", count)
	}

	// WithTx rolls back when the callback fails
	errAbort := errors.New("abort")
	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec(insert, "with-tx", "Networking", 10, 3, 3, "questions_exhausted", time.Now(), time.Now()); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("WithTx() error = %v, want %v", err, errAbort)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM quiz_runs WHERE run_id = ?", "with-tx").Scan(&count); err != nil {
		t.Fatalf("Failed to query after WithTx: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected WithTx to roll back, found %d runs", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "test_concurrent.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	_, err = db.Exec(`INSERT INTO quiz_runs
		(run_id, topic, score, lives_left, total_questions, end_reason, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		"concurrent", "Networking", 20, 2, 3, "questions_exhausted", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test run: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var topic string
			err := db.QueryRowContext(ctx, "SELECT topic FROM quiz_runs WHERE run_id = ?", "concurrent").Scan(&topic)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if topic != "Networking" {
				t.Errorf("Expected topic 'Networking', got '%s'", topic)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// TestForeignKeysOnEveryConnection checks the DSN option reaches pooled connections
func TestForeignKeysOnEveryConnection(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := Initialize(filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// hold one connection so the insert below runs on another
	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("Failed to reserve connection: %v", err)
	}
	defer conn.Close()

	_, err = db.Exec(`
		INSERT INTO quiz_run_answers (run_id, position, prompt, selected, answer_index)
		VALUES (?, 0, 'orphan', 0, 0)
	`, 9999)
	if err == nil {
		t.Error("Expected a foreign key violation for an answer without a run")
	}
}
