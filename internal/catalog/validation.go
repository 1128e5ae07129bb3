package catalog

import (
	"errors"
	"fmt"
	"strings"

	"interviewsim/internal/models"
)

// ValidationError describes one malformed catalog entry
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every topic and question and reports all problems at once
func Validate(topics []models.Topic) error {
	if len(topics) == 0 {
		return ValidationError{Field: "topics", Message: "catalog has no topics"}
	}

	var errs []error
	seen := make(map[string]bool, len(topics))
	for i, topic := range topics {
		field := fmt.Sprintf("topics[%d]", i)
		name := strings.TrimSpace(topic.Name)
		if name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "name is required"})
		} else if seen[name] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate topic %q", name)})
		}
		seen[name] = true

		if len(topic.Questions) == 0 {
			errs = append(errs, ValidationError{Field: field + ".questions", Message: "topic needs at least one question"})
			continue
		}
		for j, q := range topic.Questions {
			errs = append(errs, validateQuestion(fmt.Sprintf("%s.questions[%d]", field, j), q)...)
		}
	}
	return errors.Join(errs...)
}

func validateQuestion(field string, q models.QuestionRecord) []error {
	var errs []error
	if strings.TrimSpace(q.Prompt) == "" {
		errs = append(errs, ValidationError{Field: field + ".prompt", Message: "prompt is required"})
	}
	if len(q.Choices) != models.ChoicesPerQuestion {
		errs = append(errs, ValidationError{
			Field:   field + ".choices",
			Message: fmt.Sprintf("expected %d choices, got %d", models.ChoicesPerQuestion, len(q.Choices)),
		})
	}
	for k, c := range q.Choices {
		if strings.TrimSpace(c.Text) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("%s.choices[%d].text", field, k), Message: "text is required"})
		}
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
		errs = append(errs, ValidationError{
			Field:   field + ".answerIndex",
			Message: fmt.Sprintf("index %d out of range", q.AnswerIndex),
		})
	}
	return errs
}
