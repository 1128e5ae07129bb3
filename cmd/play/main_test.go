package main

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"interviewsim/internal/catalog"
	"interviewsim/internal/engine"
	"interviewsim/internal/models"
	"interviewsim/internal/service"
)

func newTestConsole(t *testing.T, script string) (*console, *bytes.Buffer) {
	t.Helper()
	cat, err := catalog.New([]models.Topic{{
		Name: "Go Basics",
		Questions: []models.QuestionRecord{{
			Prompt: "Which keyword starts a goroutine?",
			Choices: []models.Choice{
				{Text: "async", Explanation: "Not a Go keyword."},
				{Text: "go", Explanation: "go runs the call concurrently."},
				{Text: "defer", Explanation: "defer runs at function exit."},
				{Text: "spawn", Explanation: "Not a Go keyword."},
			},
			AnswerIndex: 1,
			Hint:        "It is two letters long.",
		}},
	}})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}

	svc := service.NewQuizService(engine.New(cat, rand.New(rand.NewSource(1))), nil, nil, false)
	var out bytes.Buffer
	return newConsole(svc, strings.NewReader(script), &out), &out
}

func TestConsolePlaysARun(t *testing.T) {
	c, out := newTestConsole(t, "start 1\nhint\nb\nsubmit\nnext\nquit\n")
	c.run()

	got := out.String()
	for _, want := range []string{
		"1. Go Basics (1 questions)",
		"Which keyword starts a goroutine?",
		"Hint: It is two letters long.",
		"Selected B.",
		"Correct! +10 points",
		"Run complete: Go Basics",
		"Final score: 10",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestConsoleWrongAnswerAndErrors(t *testing.T) {
	c, out := newTestConsole(t, "submit\nstart Nope\nstart Go Basics\nsubmit\na\nsubmit\nsubmit\nfrobnicate\n")
	c.run()

	got := out.String()
	for _, want := range []string{
		"! " + engine.ErrNoSession.Error(),
		"! " + engine.ErrInvalidTopic.Error(),
		"! " + engine.ErrNoSelection.Error(),
		"Wrong. -5 points, 2 lives left. The answer was B.",
		"! " + engine.ErrAlreadyAnswered.Error(),
		`Unknown command "frobnicate"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestConsoleLifelineHidesTwoChoices(t *testing.T) {
	c, out := newTestConsole(t, "start 1\n5050\n")
	c.run()

	got := out.String()
	last := got[strings.LastIndex(got, "Which keyword"):]
	if n := strings.Count(last, ") "); n != 2 {
		t.Errorf("expected 2 choices after the lifeline, got %d\n%s", n, last)
	}
	if !strings.Contains(last, "B) go") {
		t.Errorf("correct choice must stay visible\n%s", last)
	}
	if !strings.Contains(got, "50/50: 0") {
		t.Errorf("lifeline count not updated\n%s", got)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"a", 0, true},
		{"D", 3, true},
		{"1", 0, true},
		{"4", 3, true},
		{"5", 0, false},
		{"0", 0, false},
		{"e", 0, false},
		{"ab", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseChoice(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("parseChoice(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
