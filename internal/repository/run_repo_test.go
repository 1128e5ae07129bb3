package repository

import (
	"path/filepath"
	"testing"
	"time"

	"interviewsim/internal/database"
	"interviewsim/internal/models"
)

func newTestRepo(t *testing.T) *RunRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewRunRepository(db)
}

func sampleRun(runID, topic string, score int, completedAt time.Time) *models.RunResult {
	return &models.RunResult{
		RunID:          runID,
		Topic:          topic,
		Score:          score,
		LivesLeft:      2,
		TotalQuestions: 3,
		Answered:       2,
		Correct:        1,
		Skipped:        1,
		EndReason:      models.EndReasonExhausted,
		StartedAt:      completedAt.Add(-2 * time.Minute),
		CompletedAt:    completedAt,
		Answers: []models.AnswerRecord{
			{Position: 0, Prompt: "Which device primarily operates at OSI Layer 2?", Selected: 1, AnswerIndex: 1, Correct: true},
			{Position: 1, Prompt: "Primary purpose of VLANs?", Selected: 0, AnswerIndex: 1, UsedLifeline: true},
			{Position: 2, Prompt: "Best description of routing?", Selected: models.NoSelection, AnswerIndex: 1, Skipped: true},
		},
	}
}

func TestRecordAndGetRun(t *testing.T) {
	repo := newTestRepo(t)

	run := sampleRun("run-1", "Networking", 5, time.Now())
	if err := repo.RecordRun(run); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.ID == 0 {
		t.Fatal("RecordRun() did not set ID")
	}

	got, err := repo.GetRunByRunID("run-1")
	if err != nil {
		t.Fatalf("GetRunByRunID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetRunByRunID() returned nil")
	}
	if got.Topic != "Networking" || got.Score != 5 || got.EndReason != models.EndReasonExhausted {
		t.Errorf("run = %+v", got)
	}
	if got.Duration() != 2*time.Minute {
		t.Errorf("Duration() = %v, want 2m", got.Duration())
	}
	if len(got.Answers) != 3 {
		t.Fatalf("got %d answers, want 3", len(got.Answers))
	}
	if !got.Answers[0].Correct || !got.Answers[1].UsedLifeline || !got.Answers[2].Skipped {
		t.Errorf("answers = %+v", got.Answers)
	}
	if got.Answers[2].Selected != models.NoSelection {
		t.Errorf("skipped answer Selected = %d, want %d", got.Answers[2].Selected, models.NoSelection)
	}

	missing, err := repo.GetRunByRunID("nope")
	if err != nil {
		t.Fatalf("GetRunByRunID(nope) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetRunByRunID(nope) = %+v, want nil", missing)
	}
}

func TestRecordRunDuplicateRunID(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.RecordRun(sampleRun("dup", "Networking", 10, time.Now())); err != nil {
		t.Fatalf("first RecordRun() error = %v", err)
	}
	if err := repo.RecordRun(sampleRun("dup", "Networking", 20, time.Now())); err == nil {
		t.Fatal("second RecordRun() with the same run ID should fail")
	}

	runs, err := repo.GetRecentRuns(10, "")
	if err != nil {
		t.Fatalf("GetRecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs, want 1", len(runs))
	}
}

func TestGetRecentRuns(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Now().Add(-time.Hour)
	runs := []*models.RunResult{
		sampleRun("a", "Networking", 10, base),
		sampleRun("b", "Infra", 20, base.Add(time.Minute)),
		sampleRun("c", "Networking", 30, base.Add(2*time.Minute)),
	}
	for _, run := range runs {
		if err := repo.RecordRun(run); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", run.RunID, err)
		}
	}

	tests := []struct {
		name  string
		limit int
		topic string
		want  []string
	}{
		{"all topics newest first", 10, "", []string{"c", "b", "a"}},
		{"limited", 2, "", []string{"c", "b"}},
		{"one topic", 10, "Networking", []string{"c", "a"}},
		{"unknown topic", 10, "Storage", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetRecentRuns(tt.limit, tt.topic)
			if err != nil {
				t.Fatalf("GetRecentRuns() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d runs, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].RunID != id {
					t.Errorf("runs[%d] = %s, want %s", i, got[i].RunID, id)
				}
				if got[i].Answers != nil {
					t.Errorf("runs[%d] should not load answers", i)
				}
			}
		})
	}
}

func TestBestScore(t *testing.T) {
	repo := newTestRepo(t)

	if _, ok, err := repo.BestScore("Networking"); err != nil || ok {
		t.Fatalf("BestScore() on empty store = ok %v, err %v", ok, err)
	}

	for i, score := range []int{-15, 33, 20} {
		run := sampleRun(string(rune('a'+i)), "Networking", score, time.Now())
		if err := repo.RecordRun(run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	best, ok, err := repo.BestScore("Networking")
	if err != nil {
		t.Fatalf("BestScore() error = %v", err)
	}
	if !ok || best != 33 {
		t.Errorf("BestScore() = %d, %v, want 33, true", best, ok)
	}
}

func TestGetMissedQuestions(t *testing.T) {
	repo := newTestRepo(t)

	for _, id := range []string{"a", "b"} {
		if err := repo.RecordRun(sampleRun(id, "Networking", 0, time.Now())); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}
	other := sampleRun("c", "Infra", 0, time.Now())
	if err := repo.RecordRun(other); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	missed, err := repo.GetMissedQuestions("Networking", 5)
	if err != nil {
		t.Fatalf("GetMissedQuestions() error = %v", err)
	}
	if len(missed) != 1 {
		t.Fatalf("got %v, want only the VLAN prompt", missed)
	}
	if missed[0].Prompt != "Primary purpose of VLANs?" || missed[0].Misses != 2 {
		t.Errorf("missed[0] = %+v, want VLAN prompt with 2 misses", missed[0])
	}
}

func TestDeleteRunsBefore(t *testing.T) {
	repo := newTestRepo(t)

	now := time.Now()
	if err := repo.RecordRun(sampleRun("old", "Networking", 10, now.Add(-48*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordRun(sampleRun("new", "Networking", 10, now)); err != nil {
		t.Fatal(err)
	}

	deleted, err := repo.DeleteRunsBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteRunsBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if run, _ := repo.GetRunByRunID("old"); run != nil {
		t.Error("old run should be gone")
	}
	if run, _ := repo.GetRunByRunID("new"); run == nil {
		t.Error("new run should remain")
	}
}

func TestListRunIDs(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, run := range []*models.RunResult{
		sampleRun("late", "Networking", 5, base.Add(time.Hour)),
		sampleRun("early", "Go", 10, base),
	} {
		if err := repo.RecordRun(run); err != nil {
			t.Fatalf("RecordRun(%s) error = %v", run.RunID, err)
		}
	}

	ids, err := repo.ListRunIDs()
	if err != nil {
		t.Fatalf("ListRunIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "early" || ids[1] != "late" {
		t.Errorf("ListRunIDs() = %v, want [early late]", ids)
	}
}
