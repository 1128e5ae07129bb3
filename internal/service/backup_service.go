package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"interviewsim/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData is the run history export format
type BackupData struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Runs       []models.RunResult `json:"runs"`
}

// HistoryStore is the part of the run repository the backup service needs
type HistoryStore interface {
	ListRunIDs() ([]string, error)
	GetRunByRunID(runID string) (*models.RunResult, error)
	RecordRun(run *models.RunResult) error
	DeleteRunsBefore(cutoff time.Time) (int64, error)
}

// ImportStats reports what an import did
type ImportStats struct {
	Imported int
	Skipped  int
}

// BackupService exports, imports and prunes recorded runs
type BackupService struct {
	runs HistoryStore
	now  func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(runs HistoryStore) *BackupService {
	return &BackupService{runs: runs, now: time.Now}
}

// Export writes every recorded run, with answers, to a file
func (s *BackupService) Export(outputPath string) (int, error) {
	log.Println("Starting run history export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	count, err := s.ExportToWriter(file)
	if err != nil {
		return 0, err
	}

	log.Printf("Exported %d runs to %s", count, outputPath)
	return count, nil
}

// ExportToWriter writes every recorded run to w and returns how many were written
func (s *BackupService) ExportToWriter(w io.Writer) (int, error) {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Runs:       []models.RunResult{},
	}

	ids, err := s.runs.ListRunIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}
	for _, id := range ids {
		run, err := s.runs.GetRunByRunID(id)
		if err != nil {
			return 0, fmt.Errorf("failed to export run %s: %w", id, err)
		}
		if run == nil {
			// deleted between the listing and the read
			continue
		}
		backup.Runs = append(backup.Runs, *run)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	return len(backup.Runs), nil
}

// Import merges runs from a backup file into the history
func (s *BackupService) Import(inputPath string) (ImportStats, error) {
	log.Printf("Starting run history import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader merges runs from a backup reader. Runs whose ID is
// already recorded are left alone.
func (s *BackupService) ImportFromReader(reader io.Reader) (ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return ImportStats{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	var stats ImportStats
	for i := range backup.Runs {
		run := backup.Runs[i]
		if run.RunID == "" {
			return stats, fmt.Errorf("run %d has no run ID", i)
		}

		existing, err := s.runs.GetRunByRunID(run.RunID)
		if err != nil {
			return stats, fmt.Errorf("failed to check run %s: %w", run.RunID, err)
		}
		if existing != nil {
			stats.Skipped++
			continue
		}

		run.ID = 0
		if err := s.runs.RecordRun(&run); err != nil {
			return stats, fmt.Errorf("failed to import run %s: %w", run.RunID, err)
		}
		stats.Imported++
	}

	log.Printf("Run history import completed: %d imported, %d already present", stats.Imported, stats.Skipped)
	return stats, nil
}

// Prune deletes runs that completed more than olderThan ago
func (s *BackupService) Prune(olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("prune age must be positive, got %s", olderThan)
	}

	deleted, err := s.runs.DeleteRunsBefore(s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return deleted, nil
}
