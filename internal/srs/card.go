package srs

import "time"

const (
	// InitialEaseFactor is the ease factor assigned to a card on first exposure.
	InitialEaseFactor = 2.5

	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3
)

// CardState holds the review scheduling state for a single reviewable item,
// scoped to one learner. Cards are created lazily on first exposure and
// archived rather than deleted, so learning history is never erased.
type CardState struct {
	ItemID         string
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	DueAt          time.Time
	LastReviewedAt *time.Time
	Archived       bool
}

// NewCardState creates the state for an item seen for the first time.
// The card is immediately due so it can be scheduled in the same session.
func NewCardState(itemID string, now time.Time) CardState {
	return CardState{
		ItemID:     itemID,
		EaseFactor: InitialEaseFactor,
		DueAt:      now,
	}
}

// IsDue returns true if the card's scheduled review time has arrived.
func (c *CardState) IsDue(now time.Time) bool {
	return !now.Before(c.DueAt)
}

// OverdueDays returns how many days past due the card is, or 0 if not yet due.
func (c *CardState) OverdueDays(now time.Time) float64 {
	if now.Before(c.DueAt) {
		return 0
	}
	return now.Sub(c.DueAt).Hours() / 24.0
}
