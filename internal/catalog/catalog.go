// Package catalog holds the immutable question bank quizzes are drawn from.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"interviewsim/internal/models"
)

//go:embed default_bank.json
var defaultBank []byte

// Catalog maps topic names to their ordered question lists.
// It is read-only after construction.
type Catalog struct {
	names  []string
	topics map[string][]models.QuestionRecord
}

type bankFile struct {
	Topics []models.Topic `json:"topics"`
}

// New validates topics and builds a catalog from them
func New(topics []models.Topic) (*Catalog, error) {
	if err := Validate(topics); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		names:  make([]string, 0, len(topics)),
		topics: make(map[string][]models.QuestionRecord, len(topics)),
	}
	for _, t := range topics {
		c.names = append(c.names, t.Name)
		c.topics[t.Name] = cloneQuestions(t.Questions)
	}
	return c, nil
}

// Parse decodes a JSON question bank
func Parse(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var bank bankFile
	if err := dec.Decode(&bank); err != nil {
		return nil, fmt.Errorf("failed to decode question bank: %w", err)
	}
	return New(bank.Topics)
}

// LoadFile reads and parses a JSON question bank from disk
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in question bank
func Default() (*Catalog, error) {
	return Parse(defaultBank)
}

// Load reads the bank at path, or the built-in bank when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Topics returns topic names in catalog order
func (c *Catalog) Topics() []string {
	return slices.Clone(c.names)
}

// Has reports whether the topic exists
func (c *Catalog) Has(name string) bool {
	_, ok := c.topics[name]
	return ok
}

// Questions returns a copy of the topic's questions
func (c *Catalog) Questions(name string) ([]models.QuestionRecord, bool) {
	qs, ok := c.topics[name]
	if !ok {
		return nil, false
	}
	return cloneQuestions(qs), true
}

// QuestionCount returns how many questions a topic holds, 0 if unknown
func (c *Catalog) QuestionCount(name string) int {
	return len(c.topics[name])
}

func cloneQuestions(qs []models.QuestionRecord) []models.QuestionRecord {
	out := make([]models.QuestionRecord, len(qs))
	for i, q := range qs {
		q.Choices = slices.Clone(q.Choices)
		out[i] = q
	}
	return out
}
