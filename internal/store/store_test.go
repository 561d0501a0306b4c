package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/srs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var storeTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSkillLevelRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	skill := difficulty.SkillLevel{
		Category:           "vocabulary",
		Current:            difficulty.Hard,
		RecentAccuracy:     0.87,
		ConsecutiveCorrect: 4,
		AverageLatencyMs:   2350.5,
		LastUpdated:        storeTime,
	}
	require.NoError(t, s.SaveSkillLevel(ctx, "learner-1", skill))

	skills, cards, err := s.LoadLearnerState(ctx, "learner-1")
	require.NoError(t, err)
	require.Empty(t, cards)
	require.Len(t, skills, 1)
	got := skills["vocabulary"]
	require.Equal(t, difficulty.Hard, got.Current)
	require.InDelta(t, 0.87, got.RecentAccuracy, 1e-9)
	require.Equal(t, 4, got.ConsecutiveCorrect)
	require.InDelta(t, 2350.5, got.AverageLatencyMs, 1e-9)
	require.True(t, got.LastUpdated.Equal(storeTime))
}

func TestSkillLevelUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	skill := difficulty.SkillLevel{Category: "grammar", Current: difficulty.Medium, LastUpdated: storeTime}
	require.NoError(t, s.SaveSkillLevel(ctx, "learner-1", skill))

	skill.Current = difficulty.Easy
	skill.ConsecutiveIncorrect = 2
	require.NoError(t, s.SaveSkillLevel(ctx, "learner-1", skill))

	skills, _, err := s.LoadLearnerState(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, skills, 1)
	require.Equal(t, difficulty.Easy, skills["grammar"].Current)
	require.Equal(t, 2, skills["grammar"].ConsecutiveIncorrect)
}

func TestCardStateRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	reviewed := storeTime.Add(-24 * time.Hour)
	card := srs.CardState{
		ItemID:         "vocab-es-001",
		EaseFactor:     2.36,
		IntervalDays:   6,
		Repetitions:    2,
		DueAt:          storeTime.AddDate(0, 0, 6),
		LastReviewedAt: &reviewed,
	}
	require.NoError(t, s.SaveCardState(ctx, "learner-1", card))

	fresh := srs.NewCardState("vocab-es-002", storeTime)
	require.NoError(t, s.SaveCardState(ctx, "learner-1", fresh))

	_, cards, err := s.LoadLearnerState(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	got := cards["vocab-es-001"]
	require.InDelta(t, 2.36, got.EaseFactor, 1e-9)
	require.Equal(t, 6, got.IntervalDays)
	require.Equal(t, 2, got.Repetitions)
	require.True(t, got.DueAt.Equal(storeTime.AddDate(0, 0, 6)))
	require.NotNil(t, got.LastReviewedAt)
	require.True(t, got.LastReviewedAt.Equal(reviewed))

	require.Nil(t, cards["vocab-es-002"].LastReviewedAt)
}

func TestDueCards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	save := func(c srs.CardState) {
		require.NoError(t, s.SaveCardState(ctx, "learner-1", c))
	}
	save(srs.CardState{ItemID: "later", EaseFactor: 2.5, DueAt: storeTime.Add(-1 * time.Hour)})
	save(srs.CardState{ItemID: "oldest", EaseFactor: 2.5, DueAt: storeTime.AddDate(0, 0, -2)})
	save(srs.CardState{ItemID: "tied-hard", EaseFactor: 1.4, DueAt: storeTime.AddDate(0, 0, -1)})
	save(srs.CardState{ItemID: "tied-easy", EaseFactor: 2.8, DueAt: storeTime.AddDate(0, 0, -1)})
	save(srs.CardState{ItemID: "future", EaseFactor: 2.5, DueAt: storeTime.AddDate(0, 0, 3)})
	save(srs.CardState{ItemID: "archived", EaseFactor: 1.3, DueAt: storeTime.AddDate(0, 0, -5), Archived: true})

	due, err := s.DueCards(ctx, "learner-1", storeTime)
	require.NoError(t, err)

	var ids []string
	for _, c := range due {
		ids = append(ids, c.ItemID)
	}
	require.Equal(t, []string{"oldest", "tied-hard", "tied-easy", "later"}, ids)
}

func TestArchiveCard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	card := srs.NewCardState("retired", storeTime.AddDate(0, 0, -1))
	require.NoError(t, s.SaveCardState(ctx, "learner-1", card))
	require.NoError(t, s.ArchiveCard(ctx, "learner-1", "retired"))

	due, err := s.DueCards(ctx, "learner-1", storeTime)
	require.NoError(t, err)
	require.Empty(t, due)

	_, cards, err := s.LoadLearnerState(ctx, "learner-1")
	require.NoError(t, err)
	require.True(t, cards["retired"].Archived, "archived card must keep its state")
}

func TestAppendResult_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := difficulty.Result{
		ExerciseID: "vocab-es-001",
		Category:   "vocabulary",
		Presented:  difficulty.Medium,
		Correct:    true,
		LatencyMs:  1800,
		Timestamp:  storeTime,
	}

	fresh, err := s.AppendResult(ctx, "learner-1", "attempt-1", res)
	require.NoError(t, err)
	require.True(t, fresh)

	fresh, err = s.AppendResult(ctx, "learner-1", "attempt-1", res)
	require.NoError(t, err)
	require.False(t, fresh, "replayed attempt must not insert")

	// Same attempt ID under a different learner is a distinct event.
	fresh, err = s.AppendResult(ctx, "learner-2", "attempt-1", res)
	require.NoError(t, err)
	require.True(t, fresh)

	n, err := s.EventCount(ctx, "learner-1")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLearnerStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	record := func(attemptID, category string, correct bool, latency int64) {
		res := difficulty.Result{
			ExerciseID: "ex",
			Category:   category,
			Presented:  difficulty.Medium,
			Correct:    correct,
			LatencyMs:  latency,
			Timestamp:  storeTime,
		}
		fresh, err := s.AppendResult(ctx, "learner-1", attemptID, res)
		require.NoError(t, err)
		require.True(t, fresh)
	}
	record("a1", "vocabulary", true, 1000)
	record("a2", "vocabulary", true, 2000)
	record("a3", "vocabulary", false, 3000)
	record("a4", "grammar", false, 500)

	stats, err := s.LearnerStats(ctx, "learner-1")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, "vocabulary", stats[0].Category)
	require.Equal(t, 3, stats[0].Attempts)
	require.Equal(t, 2, stats[0].Correct)
	require.InDelta(t, 2.0/3.0, stats[0].Accuracy, 1e-9)
	require.InDelta(t, 2000, stats[0].AvgLatencyMs, 1e-9)

	require.Equal(t, "grammar", stats[1].Category)
	require.Equal(t, 1, stats[1].Attempts)
	require.Equal(t, 0, stats[1].Correct)
}
