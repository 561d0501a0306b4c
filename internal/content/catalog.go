// Package content provides the exercise bank: a JSON-loaded, in-memory
// catalog queried by category and difficulty, plus answer grading.
package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/selector"
)

// ErrUnknownExercise is returned when grading an ID the bank doesn't hold.
var ErrUnknownExercise = errors.New("content: unknown exercise")

// Exercise is one entry in the exercise bank. Reviewable exercises are
// flashcard-style items that enter the spaced repetition schedule.
type Exercise struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
	Prompt     string `json:"prompt"`
	Answer     string `json:"answer"`
	Hint       string `json:"hint,omitempty"`
	Reviewable bool   `json:"reviewable,omitempty"`
}

// Catalog is an immutable in-memory exercise bank.
type Catalog struct {
	exercises []Exercise
	byID      map[string]Exercise
}

// NewCatalog builds a catalog from exercises. Duplicate IDs are rejected.
func NewCatalog(exercises []Exercise) (*Catalog, error) {
	byID := make(map[string]Exercise, len(exercises))
	for _, ex := range exercises {
		if _, dup := byID[ex.ID]; dup {
			return nil, fmt.Errorf("content: duplicate exercise id %q", ex.ID)
		}
		byID[ex.ID] = ex
	}
	return &Catalog{exercises: exercises, byID: byID}, nil
}

// LoadFile reads and validates an exercise bank from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}

	exercises, err := ParseBank(raw)
	if err != nil {
		return nil, fmt.Errorf("parse bank %s: %w", path, err)
	}
	return NewCatalog(exercises)
}

// Get returns the exercise with the given ID.
func (c *Catalog) Get(id string) (Exercise, bool) {
	ex, ok := c.byID[id]
	return ex, ok
}

// Len returns the number of exercises in the bank.
func (c *Catalog) Len() int { return len(c.exercises) }

// Categories returns the distinct categories in the bank, in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ex := range c.exercises {
		if !seen[ex.Category] {
			seen[ex.Category] = true
			out = append(out, ex.Category)
		}
	}
	return out
}

// QueryByCategoryAndDifficulty implements selector.ExerciseSource.
func (c *Catalog) QueryByCategoryAndDifficulty(_ context.Context, category string, level difficulty.Level, excludeIDs []string) ([]selector.Candidate, error) {
	skip := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		skip[id] = true
	}

	var out []selector.Candidate
	for _, ex := range c.exercises {
		if ex.Category != category || difficulty.Level(ex.Difficulty) != level || skip[ex.ID] {
			continue
		}
		out = append(out, selector.Candidate{ExerciseID: ex.ID, Reviewable: ex.Reviewable})
	}
	return out, nil
}

// Grade compares the learner's answer against the expected one,
// ignoring case and surrounding whitespace.
func (c *Catalog) Grade(_ context.Context, exerciseID, answer string) (bool, error) {
	ex, ok := c.byID[exerciseID]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownExercise, exerciseID)
	}
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(ex.Answer)), nil
}
