package handlers

import (
	"interviewsim/internal/models"
	"interviewsim/internal/service"
)

// ChoiceView is a choice as offered before the answer is revealed
type ChoiceView struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Text   string `json:"text"`
	Hidden bool   `json:"hidden"`
}

// QuestionView never carries the answer or the explanations
type QuestionView struct {
	Prompt  string       `json:"prompt"`
	Choices []ChoiceView `json:"choices"`
	HasHint bool         `json:"hasHint"`
}

// SessionView is the JSON body returned by every session endpoint
type SessionView struct {
	Phase          models.Phase        `json:"phase"`
	Topic          string              `json:"topic,omitempty"`
	RunID          string              `json:"runId,omitempty"`
	QuestionNumber int                 `json:"questionNumber"`
	TotalQuestions int                 `json:"totalQuestions"`
	Progress       float64             `json:"progress"`
	Score          int                 `json:"score"`
	Lives          int                 `json:"lives"`
	Streak         int                 `json:"streak"`
	LifelinesLeft  int                 `json:"lifelinesLeft"`
	Question       *QuestionView       `json:"question,omitempty"`
	Selection      *int                `json:"selection"`
	Answered       bool                `json:"answered"`
	Feedback       *models.Feedback    `json:"feedback,omitempty"`
	Summary        *service.RunSummary `json:"summary,omitempty"`
}

type HintView struct {
	Hint string `json:"hint"`
}

type TopicsView struct {
	Topics []service.TopicInfo `json:"topics"`
}

type RunsView struct {
	Runs []models.RunResult `json:"runs"`
}

type MissedView struct {
	Topic     string                  `json:"topic"`
	Questions []models.MissedQuestion `json:"questions"`
}

func newSessionView(snap service.Snapshot) SessionView {
	s := snap.State
	view := SessionView{
		Phase:          s.Phase(),
		Topic:          s.Topic,
		RunID:          snap.RunID,
		TotalQuestions: s.Total(),
		Progress:       s.Progress(),
		Score:          s.Score,
		Lives:          s.Lives,
		Streak:         s.Streak,
		LifelinesLeft:  s.LifelinesLeft,
		Answered:       s.Answered,
		Feedback:       snap.Feedback,
		Summary:        snap.Summary,
	}

	if view.Phase == models.PhaseInProgress {
		view.QuestionNumber = s.Index + 1
	} else if view.Phase == models.PhaseComplete {
		view.QuestionNumber = min(s.Index+1, s.Total())
	}

	if s.HasSelection() {
		sel := s.Selection
		view.Selection = &sel
	}

	if q, ok := s.Current(); ok {
		qv := &QuestionView{Prompt: q.Prompt, HasHint: q.HasHint()}
		for i, c := range q.Choices {
			qv.Choices = append(qv.Choices, ChoiceView{
				Index:  i,
				Label:  models.ChoiceLabel(i),
				Text:   c.Text,
				Hidden: s.IsHidden(i),
			})
		}
		view.Question = qv
	}

	return view
}
