package engine

import "errors"

var (
	// ErrNoSelection is returned by Submit when no choice is selected
	ErrNoSelection = errors.New("no choice selected")
	// ErrInvalidTopic is returned by StartTopic for a name not in the catalog
	ErrInvalidTopic = errors.New("unknown topic")
	// ErrAlreadyAnswered is returned when the current question was already submitted
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned by Advance before the question is submitted
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrNoLifelinesLeft is returned by UseLifeline once the lifeline is spent
	ErrNoLifelinesLeft = errors.New("no lifelines left")
	// ErrSessionComplete is returned by per-question actions after the run ended
	ErrSessionComplete = errors.New("session complete")
	// ErrNoSession is returned by per-question actions before a topic is started
	ErrNoSession = errors.New("no topic started")
	// ErrChoiceUnavailable is returned when selecting a hidden or nonexistent choice
	ErrChoiceUnavailable = errors.New("choice not available")
)
