// Package engine implements the quiz session state machine.
//
// Every transition takes a models.SessionState by value and returns the
// next state; the argument is never modified, so callers can keep the old
// snapshot around or discard it. The engine itself holds no session state,
// only the catalog and the random source used for shuffling and the 50/50
// lifeline.
package engine

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"interviewsim/internal/catalog"
	"interviewsim/internal/models"
)

const (
	StartingLives     = 3
	StartingLifelines = 1

	CorrectPoints    = 10
	StreakBonus      = 3
	StreakBonusEvery = 3
	WrongPenalty     = 5

	// LifelineHides is how many incorrect choices one 50/50 removes
	LifelineHides = 2

	NoHintText = "No hint available."
)

// Engine applies quiz transitions against a catalog
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// New creates an engine. A nil rng is replaced by a time-seeded source;
// pass a fixed-seed source to make shuffles and lifelines reproducible.
func New(cat *catalog.Catalog, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{catalog: cat, rng: rng}
}

// Catalog returns the catalog the engine draws questions from
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// StartTopic begins a fresh run of the named topic with its questions in a
// uniformly random order. It is accepted from any phase.
func (e *Engine) StartTopic(topic string) (models.SessionState, error) {
	questions, ok := e.catalog.Questions(topic)
	if !ok {
		return models.NewSessionState(), fmt.Errorf("%w: %q", ErrInvalidTopic, topic)
	}

	e.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return models.SessionState{
		Topic:         topic,
		Questions:     questions,
		Lives:         StartingLives,
		LifelinesLeft: StartingLifelines,
		Selection:     models.NoSelection,
	}, nil
}

// SelectChoice marks idx as the player's pick. Selecting after the question
// was submitted is ignored.
func (e *Engine) SelectChoice(s models.SessionState, idx int) (models.SessionState, error) {
	q, err := current(s)
	if err != nil {
		return s, err
	}
	if s.Answered {
		return s, nil
	}
	if idx < 0 || idx >= len(q.Choices) || s.IsHidden(idx) {
		return s, fmt.Errorf("%w: %d", ErrChoiceUnavailable, idx)
	}

	next := s.Clone()
	next.Selection = idx
	return next, nil
}

// Submit scores the selected choice and locks the question until Advance
func (e *Engine) Submit(s models.SessionState) (models.SessionState, models.Feedback, error) {
	q, err := current(s)
	if err != nil {
		return s, models.Feedback{}, err
	}
	if s.Answered {
		return s, models.Feedback{}, ErrAlreadyAnswered
	}
	if !s.HasSelection() {
		return s, models.Feedback{}, ErrNoSelection
	}

	next := s.Clone()
	if q.IsCorrect(s.Selection) {
		next.Streak++
		next.Score += ScoreDelta(true, next.Streak)
	} else {
		next.Streak = 0
		next.Lives--
		next.Score += ScoreDelta(false, 0)
	}
	next.Answered = true

	fb, _ := Feedback(next)
	return next, fb, nil
}

// UseHint returns the current question's hint. It never changes state.
func (e *Engine) UseHint(s models.SessionState) (string, error) {
	q, err := current(s)
	if err != nil {
		return "", err
	}
	if !q.HasHint() {
		return NoHintText, nil
	}
	return q.Hint, nil
}

// UseLifeline spends the 50/50: up to LifelineHides of the still-visible
// incorrect choices are hidden, picked uniformly at random. The correct
// choice is never hidden.
func (e *Engine) UseLifeline(s models.SessionState) (models.SessionState, error) {
	q, err := current(s)
	if err != nil {
		return s, err
	}
	if s.Answered {
		return s, ErrAlreadyAnswered
	}
	if s.LifelinesLeft <= 0 {
		return s, ErrNoLifelinesLeft
	}

	var candidates []int
	for _, idx := range q.IncorrectChoices() {
		if !s.IsHidden(idx) {
			candidates = append(candidates, idx)
		}
	}
	n := min(LifelineHides, len(candidates))

	next := s.Clone()
	for _, p := range e.rng.Perm(len(candidates))[:n] {
		next.HiddenChoices = append(next.HiddenChoices, candidates[p])
	}
	slices.Sort(next.HiddenChoices)
	next.LifelinesLeft--
	if next.IsHidden(next.Selection) {
		next.Selection = models.NoSelection
	}
	return next, nil
}

// Skip moves past the current question without scoring it. Score and lives
// are untouched but the streak is broken.
func (e *Engine) Skip(s models.SessionState) (models.SessionState, error) {
	if _, err := current(s); err != nil {
		return s, err
	}
	if s.Answered {
		return s, ErrAlreadyAnswered
	}

	next := nextQuestion(s)
	next.Streak = 0
	return next, nil
}

// Advance moves on after a submitted question
func (e *Engine) Advance(s models.SessionState) (models.SessionState, error) {
	if _, err := current(s); err != nil {
		return s, err
	}
	if !s.Answered {
		return s, ErrNotAnswered
	}
	return nextQuestion(s), nil
}

// Feedback rebuilds the outcome of the submitted current question from the
// state alone. ok is false when the current question has not been submitted.
func Feedback(s models.SessionState) (fb models.Feedback, ok bool) {
	if !s.Answered || s.Index >= len(s.Questions) {
		return models.Feedback{}, false
	}
	q := s.Questions[s.Index]

	correct := q.IsCorrect(s.Selection)
	fb = models.Feedback{
		Correct:      correct,
		Delta:        ScoreDelta(correct, s.Streak),
		Selected:     s.Selection,
		AnswerIndex:  q.AnswerIndex,
		LivesLeft:    s.Lives,
		Explanations: Explain(q, s.Selection),
	}
	return fb, true
}

// Explain tags every choice of q as correct or not and marks the pick
func Explain(q models.QuestionRecord, selected int) []models.ChoiceExplanation {
	out := make([]models.ChoiceExplanation, len(q.Choices))
	for i, c := range q.Choices {
		out[i] = models.ChoiceExplanation{
			Index:       i,
			Label:       models.ChoiceLabel(i),
			Text:        c.Text,
			Explanation: c.Explanation,
			IsCorrect:   q.IsCorrect(i),
			IsSelected:  i == selected,
		}
	}
	return out
}

// ScoreDelta returns the points for an answer. streak is the streak after
// a correct answer was counted; every StreakBonusEvery-th answer in a row
// earns the bonus on top of the base points.
func ScoreDelta(correct bool, streak int) int {
	if !correct {
		return -WrongPenalty
	}
	delta := CorrectPoints
	if streak > 0 && streak%StreakBonusEvery == 0 {
		delta += StreakBonus
	}
	return delta
}

func current(s models.SessionState) (models.QuestionRecord, error) {
	switch s.Phase() {
	case models.PhaseNoTopic:
		return models.QuestionRecord{}, ErrNoSession
	case models.PhaseComplete:
		return models.QuestionRecord{}, ErrSessionComplete
	}
	q, _ := s.Current()
	return q, nil
}

func nextQuestion(s models.SessionState) models.SessionState {
	next := s.Clone()
	next.Index++
	next.HiddenChoices = nil
	next.Selection = models.NoSelection
	next.Answered = false
	return next
}
