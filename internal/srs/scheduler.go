// Package srs implements the SM-2 spaced repetition scheduler: a pure
// function from a card's review state and a quality rating to its next
// review state.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidQuality is returned when a quality rating falls outside [0,5].
var ErrInvalidQuality = errors.New("srs: quality must be between 0 and 5")

// Review applies one SM-2 review to card and returns the updated state.
// It is pure: the input card is never mutated, and an invalid quality
// returns the card unchanged alongside ErrInvalidQuality.
//
// The ease factor is updated on every review, including lapses. A lapse
// penalizes the factor but never resets it: partial memory persists
// through forgetting.
func Review(card CardState, quality Quality, now time.Time) (CardState, error) {
	if !quality.Valid() {
		return card, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	next := card

	miss := float64(QualityPerfect - quality)
	ef := card.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	next.EaseFactor = ef

	if quality.Pass() {
		next.Repetitions = card.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			next.IntervalDays = int(math.Round(float64(card.IntervalDays) * ef))
		}
	} else {
		next.Repetitions = 0
		next.IntervalDays = 1
	}

	// Interval is always at least one day after any review.
	if next.IntervalDays < 1 {
		next.IntervalDays = 1
	}

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt

	return next, nil
}
