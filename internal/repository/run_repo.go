package repository

import (
	"database/sql"
	"fmt"
	"time"

	"interviewsim/internal/database"
	"interviewsim/internal/models"
)

// RunRepository stores completed quiz runs
type RunRepository struct {
	db database.DBTX
}

// NewRunRepository creates a new run repository
func NewRunRepository(db database.DBTX) *RunRepository {
	return &RunRepository{db: db}
}

// RecordRun saves a completed run and its per-question answers in one
// transaction and sets run.ID to the new row's ID
func (r *RunRepository) RecordRun(run *models.RunResult) error {
	var id int64
	err := r.db.WithTx(func(tx *database.Tx) error {
		var err error
		id, err = tx.ExecReturningID(`
			INSERT INTO quiz_runs (run_id, topic, score, lives_left, total_questions,
			                       answered, correct, skipped, end_reason, started_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.RunID, run.Topic, run.Score, run.LivesLeft, run.TotalQuestions,
			run.Answered, run.Correct, run.Skipped, string(run.EndReason),
			run.StartedAt.UTC(), run.CompletedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for _, a := range run.Answers {
			_, err := tx.Exec(`
				INSERT INTO quiz_run_answers (run_id, position, prompt, selected, answer_index,
				                              correct, skipped, used_lifeline)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, id, a.Position, a.Prompt, a.Selected, a.AnswerIndex, a.Correct, a.Skipped, a.UsedLifeline)
			if err != nil {
				return fmt.Errorf("failed to insert answer %d: %w", a.Position, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	run.ID = id
	return nil
}

// GetRecentRuns returns the most recently completed runs, newest first.
// An empty topic matches every topic. Answers are not loaded.
func (r *RunRepository) GetRecentRuns(limit int, topic string) ([]models.RunResult, error) {
	query := `
		SELECT id, run_id, topic, score, lives_left, total_questions,
		       answered, correct, skipped, end_reason, started_at, completed_at
		FROM quiz_runs
	`
	var args []interface{}
	if topic != "" {
		query += " WHERE topic = ?"
		args = append(args, topic)
	}
	query += " ORDER BY completed_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.RunResult
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// ListRunIDs returns every recorded run ID, oldest first
func (r *RunRepository) ListRunIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT run_id FROM quiz_runs ORDER BY completed_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetRunByRunID retrieves a run with its answers, or nil when it does not exist
func (r *RunRepository) GetRunByRunID(runID string) (*models.RunResult, error) {
	row := r.db.QueryRow(`
		SELECT id, run_id, topic, score, lives_left, total_questions,
		       answered, correct, skipped, end_reason, started_at, completed_at
		FROM quiz_runs
		WHERE run_id = ?
	`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT position, prompt, selected, answer_index, correct, skipped, used_lifeline
		FROM quiz_run_answers
		WHERE run_id = ?
		ORDER BY position
	`, run.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.AnswerRecord
		if err := rows.Scan(&a.Position, &a.Prompt, &a.Selected, &a.AnswerIndex,
			&a.Correct, &a.Skipped, &a.UsedLifeline); err != nil {
			return nil, err
		}
		run.Answers = append(run.Answers, a)
	}

	return run, rows.Err()
}

// BestScore returns the highest recorded score for a topic.
// ok is false when the topic has no recorded runs.
func (r *RunRepository) BestScore(topic string) (score int, ok bool, err error) {
	var best sql.NullInt64
	err = r.db.QueryRow("SELECT MAX(score) FROM quiz_runs WHERE topic = ?", topic).Scan(&best)
	if err != nil {
		return 0, false, err
	}
	if !best.Valid {
		return 0, false, nil
	}
	return int(best.Int64), true, nil
}

// GetMissedQuestions returns the prompts of a topic answered wrongly most often.
// Skipped questions do not count as misses.
func (r *RunRepository) GetMissedQuestions(topic string, limit int) ([]models.MissedQuestion, error) {
	dialect := r.db.GetDialect()
	query := fmt.Sprintf(`
		SELECT a.prompt, COUNT(*) AS misses
		FROM quiz_run_answers a
		JOIN quiz_runs q ON q.id = a.run_id
		WHERE q.topic = ? AND a.correct = %s AND a.skipped = %s
		GROUP BY a.prompt
		ORDER BY misses DESC, a.prompt
		LIMIT ?
	`, dialect.BoolValue(false), dialect.BoolValue(false))

	rows, err := r.db.Query(query, topic, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var missed []models.MissedQuestion
	for rows.Next() {
		var m models.MissedQuestion
		if err := rows.Scan(&m.Prompt, &m.Misses); err != nil {
			return nil, err
		}
		missed = append(missed, m)
	}

	return missed, rows.Err()
}

// DeleteRunsBefore removes runs completed before cutoff and returns how many went
func (r *RunRepository) DeleteRunsBefore(cutoff time.Time) (int64, error) {
	var deleted int64
	cutoff = cutoff.UTC()

	err := r.db.WithTx(func(tx *database.Tx) error {
		_, err := tx.Exec(`
			DELETE FROM quiz_run_answers
			WHERE run_id IN (SELECT id FROM quiz_runs WHERE completed_at < ?)
		`, cutoff)
		if err != nil {
			return err
		}

		result, err := tx.Exec("DELETE FROM quiz_runs WHERE completed_at < ?", cutoff)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.RunResult, error) {
	run := &models.RunResult{}
	var endReason string
	err := row.Scan(
		&run.ID,
		&run.RunID,
		&run.Topic,
		&run.Score,
		&run.LivesLeft,
		&run.TotalQuestions,
		&run.Answered,
		&run.Correct,
		&run.Skipped,
		&endReason,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	run.EndReason = models.EndReason(endReason)
	return run, nil
}
