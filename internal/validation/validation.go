package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// MaxTopicNameLength bounds topic names accepted from clients
const MaxTopicNameLength = 200

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateTopicName checks a topic name sent by a client
func ValidateTopicName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "topic", Message: "topic is required"}
	}
	if len(name) > MaxTopicNameLength {
		return ValidationError{Field: "topic", Message: fmt.Sprintf("topic must be at most %d characters", MaxTopicNameLength)}
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return ValidationError{Field: "topic", Message: "topic contains control characters"}
	}
	return nil
}
