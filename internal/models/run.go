package models

import "time"

// EndReason records why a run completed
type EndReason string

const (
	EndReasonExhausted  EndReason = "questions_exhausted"
	EndReasonOutOfLives EndReason = "out_of_lives"
)

// RunResult is the summary of a completed run
type RunResult struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"runId"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	LivesLeft      int       `json:"livesLeft"`
	TotalQuestions int       `json:"totalQuestions"`
	Answered       int       `json:"answered"`
	Correct        int       `json:"correct"`
	Skipped        int       `json:"skipped"`
	EndReason      EndReason `json:"endReason"`
	StartedAt      time.Time `json:"startedAt"`
	CompletedAt    time.Time `json:"completedAt"`

	Answers []AnswerRecord `json:"answers,omitempty"`
}

// AnswerRecord is what happened to one question of a run
type AnswerRecord struct {
	Position     int    `json:"position"`
	Prompt       string `json:"prompt"`
	Selected     int    `json:"selected"`
	AnswerIndex  int    `json:"answerIndex"`
	Correct      bool   `json:"correct"`
	Skipped      bool   `json:"skipped"`
	UsedLifeline bool   `json:"usedLifeline"`
}

// MissedQuestion counts how often a prompt was answered wrongly
type MissedQuestion struct {
	Prompt string `json:"prompt"`
	Misses int    `json:"misses"`
}

// Accuracy returns the percentage of submitted answers that were correct
func (r RunResult) Accuracy() float64 {
	if r.Answered == 0 {
		return 0
	}
	return float64(r.Correct) * 100 / float64(r.Answered)
}

// Duration returns how long the run took
func (r RunResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
