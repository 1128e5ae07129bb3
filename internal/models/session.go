package models

import "slices"

// NoSelection marks that no choice is selected for the current question
const NoSelection = -1

// Phase is the completion state of a session
type Phase string

const (
	PhaseNoTopic    Phase = "no_topic"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

// SessionState is the full state of one quiz run.
// It is treated as a value: engine transitions return a new SessionState
// and never modify the one they were given.
type SessionState struct {
	Topic         string           `json:"topic"`
	Questions     []QuestionRecord `json:"-"`
	Index         int              `json:"index"`
	Score         int              `json:"score"`
	Lives         int              `json:"lives"`
	Streak        int              `json:"streak"`
	LifelinesLeft int              `json:"lifelinesLeft"`
	HiddenChoices []int            `json:"hiddenChoices"`
	Selection     int              `json:"selection"`
	Answered      bool             `json:"answered"`
}

// NewSessionState returns the state before any topic has been started
func NewSessionState() SessionState {
	return SessionState{Selection: NoSelection}
}

// Phase derives where the session sits in its lifecycle.
// Running out of lives completes the session regardless of the index.
func (s SessionState) Phase() Phase {
	if s.Topic == "" {
		return PhaseNoTopic
	}
	if s.Lives <= 0 || s.Index >= len(s.Questions) {
		return PhaseComplete
	}
	return PhaseInProgress
}

// Total returns the number of questions in the run
func (s SessionState) Total() int {
	return len(s.Questions)
}

// Current returns the question being presented, if any
func (s SessionState) Current() (QuestionRecord, bool) {
	if s.Phase() != PhaseInProgress {
		return QuestionRecord{}, false
	}
	return s.Questions[s.Index], true
}

// IsHidden reports whether the lifeline removed choice idx
func (s SessionState) IsHidden(idx int) bool {
	return slices.Contains(s.HiddenChoices, idx)
}

// HasSelection reports whether a choice is selected
func (s SessionState) HasSelection() bool {
	return s.Selection != NoSelection
}

// VisibleChoices returns the indices of the current question's choices
// that are still offered to the player
func (s SessionState) VisibleChoices() []int {
	q, ok := s.Current()
	if !ok {
		return nil
	}
	visible := make([]int, 0, len(q.Choices))
	for i := range q.Choices {
		if !s.IsHidden(i) {
			visible = append(visible, i)
		}
	}
	return visible
}

// Progress returns the fraction of questions already left behind
func (s SessionState) Progress() float64 {
	return float64(s.Index) / float64(max(s.Total(), 1))
}

// Clone returns a copy that shares no mutable slices with s.
// Questions is shared because it is never modified after a run starts.
func (s SessionState) Clone() SessionState {
	out := s
	out.HiddenChoices = slices.Clone(s.HiddenChoices)
	return out
}
