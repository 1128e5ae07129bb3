package models

// ChoiceExplanation is the post-submission view of one choice
type ChoiceExplanation struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Text        string `json:"text"`
	Explanation string `json:"explanation"`
	IsCorrect   bool   `json:"isCorrect"`
	IsSelected  bool   `json:"isSelected"`
}

// Feedback describes the outcome of a submitted answer
type Feedback struct {
	Correct      bool                `json:"correct"`
	Delta        int                 `json:"delta"`
	Selected     int                 `json:"selected"`
	AnswerIndex  int                 `json:"answerIndex"`
	LivesLeft    int                 `json:"livesLeft"`
	Explanations []ChoiceExplanation `json:"explanations"`
}
