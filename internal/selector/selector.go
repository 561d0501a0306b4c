// Package selector picks the next exercise for a learner: due review
// cards first, new content at the learner's target difficulty otherwise.
package selector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/srs"
)

// ErrNoContent is returned when no eligible exercise exists for a
// category. The caller decides the fallback (widen the category, end the
// session, notify).
var ErrNoContent = errors.New("selector: no content available")

// DefaultAntiRepeatWindow is the number of most recent presentations an
// exercise is excluded from repeating within.
const DefaultAntiRepeatWindow = 5

const (
	// ExploreChance is the probability of nudging the target difficulty
	// one level when accuracy is outside the comfortable band.
	ExploreChance = 0.2

	// ExploreHighAccuracy is the accuracy above which a harder level may
	// be tried.
	ExploreHighAccuracy = 0.8

	// ExploreLowAccuracy is the accuracy below which an easier level may
	// be tried.
	ExploreLowAccuracy = 0.6
)

// CardSource supplies a learner's due review cards.
type CardSource interface {
	// DueCards returns cards with DueAt <= now, unarchived only.
	DueCards(ctx context.Context, learnerID string, now time.Time) ([]srs.CardState, error)
}

// Candidate is one selectable piece of new content.
type Candidate struct {
	ExerciseID string
	Reviewable bool
}

// ExerciseSource supplies never-seen content by category and difficulty.
type ExerciseSource interface {
	QueryByCategoryAndDifficulty(ctx context.Context, category string, level difficulty.Level, excludeIDs []string) ([]Candidate, error)
}

// Selection is the selector's decision for the next exercise.
type Selection struct {
	ExerciseID string
	Level      difficulty.Level
	Reviewable bool
	IsReview   bool // true when the exercise replays a scheduled card
}

// Selector combines due cards, the learner's difficulty profile, and
// available content into a single pick.
type Selector struct {
	cards     CardSource
	exercises ExerciseSource
	rand      difficulty.RandomSource
}

// New creates a Selector. A nil RandomSource falls back to a time-seeded one.
func New(cards CardSource, exercises ExerciseSource, r difficulty.RandomSource) *Selector {
	if r == nil {
		r = difficulty.NewSeeded(time.Now().UnixNano())
	}
	return &Selector{cards: cards, exercises: exercises, rand: r}
}

// Next picks the next exercise for the learner in the given category.
// skill may be nil (category never practiced); recentIDs are the last N
// presented exercise IDs, which are never repeated; seenIDs are all items
// the learner already holds a review card for, due or not.
//
// Priority order: overdue cards by earliest DueAt (ties broken by lowest
// ease factor, so struggling items surface first), then cards due right
// now, then never-seen content at the target difficulty. A seen item only
// ever comes back through its card's schedule, so a card that is not yet
// due is never re-served as new content.
func (s *Selector) Next(ctx context.Context, learnerID, category string, skill *difficulty.SkillLevel, recentIDs, seenIDs []string, now time.Time) (Selection, error) {
	target := s.targetLevel(skill)
	recent := make(map[string]bool, len(recentIDs))
	for _, id := range recentIDs {
		recent[id] = true
	}

	cards, err := s.cards.DueCards(ctx, learnerID, now)
	if err != nil {
		return Selection{}, fmt.Errorf("query due cards: %w", err)
	}
	sortDue(cards)
	for _, c := range cards {
		if c.Archived || recent[c.ItemID] {
			continue
		}
		return Selection{
			ExerciseID: c.ItemID,
			Level:      target,
			Reviewable: true,
			IsReview:   true,
		}, nil
	}

	exclude := make([]string, 0, len(recentIDs)+len(seenIDs))
	exclude = append(exclude, recentIDs...)
	exclude = append(exclude, seenIDs...)

	candidates, err := s.exercises.QueryByCategoryAndDifficulty(ctx, category, target, exclude)
	if err != nil {
		return Selection{}, fmt.Errorf("query content: %w", err)
	}
	if len(candidates) == 0 {
		return Selection{}, fmt.Errorf("%w: category %q at level %s", ErrNoContent, category, target)
	}

	pick := candidates[0]
	return Selection{
		ExerciseID: pick.ExerciseID,
		Level:      target,
		Reviewable: pick.Reviewable,
	}, nil
}

// targetLevel derives the difficulty to present: the current skill level
// (Medium for an unseen category) with a bounded exploration nudge.
func (s *Selector) targetLevel(skill *difficulty.SkillLevel) difficulty.Level {
	if skill == nil {
		return difficulty.Medium
	}

	base := skill.Current
	switch {
	case skill.RecentAccuracy > ExploreHighAccuracy:
		if s.rand.Uniform() < ExploreChance {
			return (base + 1).Clamp()
		}
	case skill.RecentAccuracy < ExploreLowAccuracy:
		if s.rand.Uniform() < ExploreChance {
			return (base - 1).Clamp()
		}
	}
	return base
}

// sortDue orders cards most urgent first: earliest due date, then lowest
// ease factor, then item ID for a stable order.
func sortDue(cards []srs.CardState) {
	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].DueAt.Equal(cards[j].DueAt) {
			return cards[i].DueAt.Before(cards[j].DueAt)
		}
		if cards[i].EaseFactor != cards[j].EaseFactor {
			return cards[i].EaseFactor < cards[j].EaseFactor
		}
		return cards[i].ItemID < cards[j].ItemID
	})
}
