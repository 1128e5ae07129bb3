package service

import (
	"context"
	"log"
	"sync"
	"time"

	"interviewsim/internal/engine"
	"interviewsim/internal/models"

	"github.com/google/uuid"
)

// RunStore persists completed runs. *repository.RunRepository satisfies it.
type RunStore interface {
	RecordRun(run *models.RunResult) error
	GetRecentRuns(limit int, topic string) ([]models.RunResult, error)
	GetRunByRunID(runID string) (*models.RunResult, error)
	BestScore(topic string) (int, bool, error)
	GetMissedQuestions(topic string, limit int) ([]models.MissedQuestion, error)
}

// RunNotifier is told about every completed run. *EmailService satisfies it.
type RunNotifier interface {
	SendRunSummary(ctx context.Context, summary RunSummary) error
}

// RunSummary is a completed run plus the best score on record for its topic
type RunSummary struct {
	Run       models.RunResult `json:"run"`
	BestScore int              `json:"bestScore"`
	HasBest   bool             `json:"hasBest"`
	NewBest   bool             `json:"newBest"`
}

// Snapshot is the player-facing view of the quiz after an action
type Snapshot struct {
	State    models.SessionState
	RunID    string
	Feedback *models.Feedback
	Summary  *RunSummary
}

// TopicInfo describes a topic the player can start
type TopicInfo struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"questionCount"`
}

const notifyTimeout = 30 * time.Second

// QuizService owns the single active quiz session and records each run
// once it completes. It is safe for concurrent use.
type QuizService struct {
	engine   *engine.Engine
	runs     RunStore
	notifier RunNotifier
	debug    bool
	now      func() time.Time

	mu           sync.Mutex
	state        models.SessionState
	runID        string
	startedAt    time.Time
	answers      []models.AnswerRecord
	usedLifeline bool
	summary      *RunSummary
	notifyWG     sync.WaitGroup
}

// NewQuizService creates a quiz service. runs and notifier may be nil.
func NewQuizService(eng *engine.Engine, runs RunStore, notifier RunNotifier, debug bool) *QuizService {
	return &QuizService{
		engine:   eng,
		runs:     runs,
		notifier: notifier,
		debug:    debug,
		now:      time.Now,
		state:    models.NewSessionState(),
	}
}

// Topics lists the topics in catalog order
func (s *QuizService) Topics() []TopicInfo {
	cat := s.engine.Catalog()
	names := cat.Topics()
	topics := make([]TopicInfo, len(names))
	for i, name := range names {
		topics[i] = TopicInfo{Name: name, QuestionCount: cat.QuestionCount(name)}
	}
	return topics
}

// Snapshot returns the current view without changing anything
func (s *QuizService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Start begins a new run of topic, abandoning any run in progress.
// An abandoned run is not recorded.
func (s *QuizService) Start(topic string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.StartTopic(topic)
	if err != nil {
		return s.snapshotLocked(), err
	}

	if s.state.Phase() == models.PhaseInProgress {
		log.Printf("Abandoning run %s (topic=%s, question %d/%d)", s.runID, s.state.Topic, s.state.Index+1, s.state.Total())
	}

	s.state = next
	s.runID = uuid.New().String()
	s.startedAt = s.now()
	s.answers = nil
	s.usedLifeline = false
	s.summary = nil

	log.Printf("Run started: run=%s topic=%q questions=%d", s.runID, topic, next.Total())
	return s.snapshotLocked(), nil
}

// Select marks a choice of the current question
func (s *QuizService) Select(idx int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.SelectChoice(s.state, idx)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	return s.snapshotLocked(), nil
}

// Submit scores the selected choice
func (s *QuizService) Submit() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, fb, err := s.engine.Submit(s.state)
	if err != nil {
		return s.snapshotLocked(), err
	}

	q, _ := s.state.Current()
	s.answers = append(s.answers, models.AnswerRecord{
		Position:     s.state.Index,
		Prompt:       q.Prompt,
		Selected:     fb.Selected,
		AnswerIndex:  fb.AnswerIndex,
		Correct:      fb.Correct,
		UsedLifeline: s.usedLifeline,
	})
	s.state = next

	if s.debug {
		log.Printf("[DEBUG] Submit: run=%s correct=%v delta=%d score=%d lives=%d streak=%d",
			s.runID, fb.Correct, fb.Delta, next.Score, next.Lives, next.Streak)
	}

	s.completeIfDoneLocked()
	return s.snapshotLocked(), nil
}

// Hint returns the current question's hint
func (s *QuizService) Hint() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.UseHint(s.state)
}

// Lifeline spends the 50/50 on the current question
func (s *QuizService) Lifeline() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.UseLifeline(s.state)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	s.usedLifeline = true

	if s.debug {
		log.Printf("[DEBUG] Lifeline: run=%s hidden=%v", s.runID, next.HiddenChoices)
	}
	return s.snapshotLocked(), nil
}

// Skip moves past the current question without answering it
func (s *QuizService) Skip() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, _ := s.state.Current()
	next, err := s.engine.Skip(s.state)
	if err != nil {
		return s.snapshotLocked(), err
	}

	s.answers = append(s.answers, models.AnswerRecord{
		Position:     s.state.Index,
		Prompt:       q.Prompt,
		Selected:     models.NoSelection,
		AnswerIndex:  q.AnswerIndex,
		Skipped:      true,
		UsedLifeline: s.usedLifeline,
	})
	s.state = next
	s.usedLifeline = false

	s.completeIfDoneLocked()
	return s.snapshotLocked(), nil
}

// Advance moves on after a submitted question
func (s *QuizService) Advance() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.Advance(s.state)
	if err != nil {
		return s.snapshotLocked(), err
	}
	s.state = next
	s.usedLifeline = false

	s.completeIfDoneLocked()
	return s.snapshotLocked(), nil
}

// RecentRuns lists recorded runs, newest first
func (s *QuizService) RecentRuns(limit int, topic string) ([]models.RunResult, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.GetRecentRuns(limit, topic)
}

// Run returns one recorded run with its answers, or nil if unknown
func (s *QuizService) Run(runID string) (*models.RunResult, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.GetRunByRunID(runID)
}

// MissedQuestions lists the prompts of a topic answered wrongly most often
func (s *QuizService) MissedQuestions(topic string, limit int) ([]models.MissedQuestion, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.GetMissedQuestions(topic, limit)
}

// Wait blocks until pending run notifications have been sent
func (s *QuizService) Wait() {
	s.notifyWG.Wait()
}

func (s *QuizService) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state.Clone(), RunID: s.runID, Summary: s.summary}
	if fb, ok := engine.Feedback(s.state); ok {
		snap.Feedback = &fb
	}
	return snap
}

// completeIfDoneLocked records the run the first time it reaches Complete
func (s *QuizService) completeIfDoneLocked() {
	if s.state.Phase() != models.PhaseComplete || s.summary != nil {
		return
	}

	run := s.buildRunLocked()
	summary := &RunSummary{Run: run}

	if s.runs != nil {
		// best is read before this run is stored so NewBest compares against earlier runs;
		// a failed read leaves the best-score fields unset
		best, hasBest, err := s.runs.BestScore(run.Topic)
		if err != nil {
			log.Printf("Error reading best score for %q: %v", run.Topic, err)
		} else {
			summary.NewBest = !hasBest || run.Score > best
			summary.BestScore = run.Score
			if hasBest {
				summary.BestScore = max(best, run.Score)
			}
			summary.HasBest = true
		}

		if err := s.runs.RecordRun(&run); err != nil {
			log.Printf("Error recording run %s: %v", run.RunID, err)
		}
		summary.Run = run
	}
	s.summary = summary

	log.Printf("Run completed: run=%s topic=%q score=%d lives=%d reason=%s",
		run.RunID, run.Topic, run.Score, run.LivesLeft, run.EndReason)

	if s.notifier != nil {
		s.notifyWG.Add(1)
		go func(summary RunSummary) {
			defer s.notifyWG.Done()
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.SendRunSummary(ctx, summary); err != nil {
				log.Printf("Error sending run summary for %s: %v", summary.Run.RunID, err)
			}
		}(*summary)
	}
}

func (s *QuizService) buildRunLocked() models.RunResult {
	run := models.RunResult{
		RunID:          s.runID,
		Topic:          s.state.Topic,
		Score:          s.state.Score,
		LivesLeft:      s.state.Lives,
		TotalQuestions: s.state.Total(),
		EndReason:      models.EndReasonExhausted,
		StartedAt:      s.startedAt,
		CompletedAt:    s.now(),
		Answers:        append([]models.AnswerRecord(nil), s.answers...),
	}
	if s.state.Lives <= 0 {
		run.EndReason = models.EndReasonOutOfLives
	}
	for _, a := range s.answers {
		switch {
		case a.Skipped:
			run.Skipped++
		case a.Correct:
			run.Answered++
			run.Correct++
		default:
			run.Answered++
		}
	}
	return run
}
