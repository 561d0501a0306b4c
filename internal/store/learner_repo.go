package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/srs"
)

// skillRow mirrors the skill_levels table.
type skillRow struct {
	LearnerID            string  `db:"learner_id"`
	Category             string  `db:"category"`
	Level                int     `db:"level"`
	RecentAccuracy       float64 `db:"recent_accuracy"`
	ConsecutiveCorrect   int     `db:"consecutive_correct"`
	ConsecutiveIncorrect int     `db:"consecutive_incorrect"`
	AvgLatencyMs         float64 `db:"avg_latency_ms"`
	UpdatedAt            string  `db:"updated_at"`
}

// cardRow mirrors the card_states table.
type cardRow struct {
	LearnerID      string         `db:"learner_id"`
	ItemID         string         `db:"item_id"`
	EaseFactor     float64        `db:"ease_factor"`
	IntervalDays   int            `db:"interval_days"`
	Repetitions    int            `db:"repetitions"`
	DueAt          string         `db:"due_at"`
	LastReviewedAt sql.NullString `db:"last_reviewed_at"`
	Archived       bool           `db:"archived"`
}

func (r skillRow) toSkill() (difficulty.SkillLevel, error) {
	updated, err := time.Parse(time.RFC3339, r.UpdatedAt)
	if err != nil {
		return difficulty.SkillLevel{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return difficulty.SkillLevel{
		Category:             r.Category,
		Current:              difficulty.Level(r.Level),
		RecentAccuracy:       r.RecentAccuracy,
		ConsecutiveCorrect:   r.ConsecutiveCorrect,
		ConsecutiveIncorrect: r.ConsecutiveIncorrect,
		AverageLatencyMs:     r.AvgLatencyMs,
		LastUpdated:          updated,
	}, nil
}

func (r cardRow) toCard() (srs.CardState, error) {
	dueAt, err := time.Parse(time.RFC3339, r.DueAt)
	if err != nil {
		return srs.CardState{}, fmt.Errorf("parse due_at: %w", err)
	}
	card := srs.CardState{
		ItemID:       r.ItemID,
		EaseFactor:   r.EaseFactor,
		IntervalDays: r.IntervalDays,
		Repetitions:  r.Repetitions,
		DueAt:        dueAt,
		Archived:     r.Archived,
	}
	if r.LastReviewedAt.Valid {
		last, err := time.Parse(time.RFC3339, r.LastReviewedAt.String)
		if err != nil {
			return srs.CardState{}, fmt.Errorf("parse last_reviewed_at: %w", err)
		}
		card.LastReviewedAt = &last
	}
	return card, nil
}

// LoadLearnerState returns the learner's skill profiles keyed by category
// and review cards keyed by item ID. Both maps are empty, not nil, for an
// unseen learner.
func (s *Store) LoadLearnerState(ctx context.Context, learnerID string) (map[string]difficulty.SkillLevel, map[string]srs.CardState, error) {
	var skillRows []skillRow
	err := s.db.SelectContext(ctx, &skillRows,
		`SELECT * FROM skill_levels WHERE learner_id = ?`, learnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("query skill levels: %w", err)
	}

	skills := make(map[string]difficulty.SkillLevel, len(skillRows))
	for _, r := range skillRows {
		sl, err := r.toSkill()
		if err != nil {
			return nil, nil, err
		}
		skills[sl.Category] = sl
	}

	var cardRows []cardRow
	err = s.db.SelectContext(ctx, &cardRows,
		`SELECT * FROM card_states WHERE learner_id = ?`, learnerID)
	if err != nil {
		return nil, nil, fmt.Errorf("query card states: %w", err)
	}

	cards := make(map[string]srs.CardState, len(cardRows))
	for _, r := range cardRows {
		c, err := r.toCard()
		if err != nil {
			return nil, nil, err
		}
		cards[c.ItemID] = c
	}

	return skills, cards, nil
}

// SaveSkillLevel upserts the learner's profile for one category.
func (s *Store) SaveSkillLevel(ctx context.Context, learnerID string, skill difficulty.SkillLevel) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO skill_levels
			(learner_id, category, level, recent_accuracy,
			 consecutive_correct, consecutive_incorrect, avg_latency_ms, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, category) DO UPDATE SET
			level                 = excluded.level,
			recent_accuracy       = excluded.recent_accuracy,
			consecutive_correct   = excluded.consecutive_correct,
			consecutive_incorrect = excluded.consecutive_incorrect,
			avg_latency_ms        = excluded.avg_latency_ms,
			updated_at            = excluded.updated_at`,
		learnerID, skill.Category, int(skill.Current), skill.RecentAccuracy,
		skill.ConsecutiveCorrect, skill.ConsecutiveIncorrect,
		skill.AverageLatencyMs, skill.LastUpdated.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert skill level: %w", err)
	}
	return nil
}

// SaveCardState upserts one review card.
func (s *Store) SaveCardState(ctx context.Context, learnerID string, card srs.CardState) error {
	var lastReviewed sql.NullString
	if card.LastReviewedAt != nil {
		lastReviewed = sql.NullString{
			String: card.LastReviewedAt.UTC().Format(time.RFC3339),
			Valid:  true,
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_states
			(learner_id, item_id, ease_factor, interval_days,
			 repetitions, due_at, last_reviewed_at, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, item_id) DO UPDATE SET
			ease_factor      = excluded.ease_factor,
			interval_days    = excluded.interval_days,
			repetitions      = excluded.repetitions,
			due_at           = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			archived         = excluded.archived`,
		learnerID, card.ItemID, card.EaseFactor, card.IntervalDays,
		card.Repetitions, card.DueAt.UTC().Format(time.RFC3339),
		lastReviewed, card.Archived)
	if err != nil {
		return fmt.Errorf("upsert card state: %w", err)
	}
	return nil
}

// ArchiveCard retires an item from review without deleting its history.
func (s *Store) ArchiveCard(ctx context.Context, learnerID, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE card_states SET archived = 1 WHERE learner_id = ? AND item_id = ?`,
		learnerID, itemID)
	if err != nil {
		return fmt.Errorf("archive card: %w", err)
	}
	return nil
}

// DueCards returns the learner's unarchived cards due at or before now,
// most urgent first: earliest due date, then lowest ease factor.
func (s *Store) DueCards(ctx context.Context, learnerID string, now time.Time) ([]srs.CardState, error) {
	var rows []cardRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM card_states
		WHERE learner_id = ? AND archived = 0 AND due_at <= ?
		ORDER BY due_at ASC, ease_factor ASC, item_id ASC`,
		learnerID, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query due cards: %w", err)
	}

	cards := make([]srs.CardState, 0, len(rows))
	for _, r := range rows {
		c, err := r.toCard()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
