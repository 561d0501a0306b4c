package store

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lexio/internal/difficulty"
)

// AppendResult records one scored attempt. The (learner_id, attempt_id)
// pair is unique, so a retried write is a no-op; the return value reports
// whether this call actually inserted the event.
func (s *Store) AppendResult(ctx context.Context, learnerID, attemptID string, res difficulty.Result) (bool, error) {
	r, err := s.db.ExecContext(ctx, `
		INSERT INTO result_events
			(learner_id, attempt_id, exercise_id, category,
			 presented_level, correct, latency_ms, hints_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (learner_id, attempt_id) DO NOTHING`,
		learnerID, attemptID, res.ExerciseID, res.Category,
		int(res.Presented), res.Correct, res.LatencyMs, res.HintsUsed,
		res.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert result event: %w", err)
	}

	n, err := r.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// CategoryStats aggregates a learner's history in one category.
type CategoryStats struct {
	Category     string  `db:"category"`
	Attempts     int     `db:"attempts"`
	Correct      int     `db:"correct"`
	Accuracy     float64 `db:"accuracy"`
	AvgLatencyMs float64 `db:"avg_latency_ms"`
}

// LearnerStats returns per-category aggregates over the learner's full
// event history, ordered by attempt count.
func (s *Store) LearnerStats(ctx context.Context, learnerID string) ([]CategoryStats, error) {
	var stats []CategoryStats
	err := s.db.SelectContext(ctx, &stats, `
		SELECT
			category,
			COUNT(*)                  AS attempts,
			SUM(correct)              AS correct,
			AVG(correct)              AS accuracy,
			COALESCE(AVG(latency_ms), 0) AS avg_latency_ms
		FROM result_events
		WHERE learner_id = ?
		GROUP BY category
		ORDER BY attempts DESC, category ASC`,
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("query learner stats: %w", err)
	}
	return stats, nil
}

// EventCount returns the total number of recorded attempts for a learner.
func (s *Store) EventCount(ctx context.Context, learnerID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM result_events WHERE learner_id = ?`, learnerID)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}
