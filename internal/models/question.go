package models

import "strings"

// ChoicesPerQuestion is the number of choices every catalog question carries
const ChoicesPerQuestion = 4

// Choice is one selectable answer of a question
type Choice struct {
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
}

// QuestionRecord is a single multiple-choice question from the catalog
type QuestionRecord struct {
	Prompt      string   `json:"prompt"`
	Choices     []Choice `json:"choices"`
	AnswerIndex int      `json:"answerIndex"`
	Hint        string   `json:"hint,omitempty"`
}

// IsCorrect reports whether idx is the correct choice
func (q QuestionRecord) IsCorrect(idx int) bool {
	return idx == q.AnswerIndex
}

// HasHint reports whether the question carries hint text
func (q QuestionRecord) HasHint() bool {
	return q.Hint != ""
}

// IncorrectChoices returns the indices of every wrong choice in order
func (q QuestionRecord) IncorrectChoices() []int {
	wrong := make([]int, 0, len(q.Choices))
	for i := range q.Choices {
		if i != q.AnswerIndex {
			wrong = append(wrong, i)
		}
	}
	return wrong
}

// Topic is a named, ordered list of questions
type Topic struct {
	Name      string           `json:"name"`
	Questions []QuestionRecord `json:"questions"`
}

// ChoiceLabel returns the letter shown next to a choice (0 -> "A")
func ChoiceLabel(idx int) string {
	if idx < 0 || idx >= 26 {
		return "?"
	}
	return string(rune('A' + idx))
}

// ParseChoiceLabel converts a letter such as "b" or "B" back to its index
func ParseChoiceLabel(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) != 1 || label[0] < 'A' || label[0] > 'Z' {
		return 0, false
	}
	return int(label[0] - 'A'), true
}
