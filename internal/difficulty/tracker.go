// Package difficulty maintains a rolling performance profile per skill
// category and derives a discrete difficulty level from it.
package difficulty

import "time"

const (
	// AccuracyAlpha is the EMA weight given to the newest correctness sample.
	AccuracyAlpha = 0.3

	// LatencyAlpha is the EMA weight given to the newest latency sample.
	LatencyAlpha = 0.2

	// PromoteThreshold is the accuracy at or above which promotion rules apply.
	PromoteThreshold = 0.85

	// DemoteThreshold is the accuracy at or below which demotion rules apply.
	DemoteThreshold = 0.60

	// FastPromoteStreak is the consecutive-correct count for an immediate promotion.
	FastPromoteStreak = 3

	// FastDemoteStreak is the consecutive-incorrect count for an immediate demotion.
	FastDemoteStreak = 2

	// PromoteChance is the probability of a gradual promotion.
	PromoteChance = 0.3

	// DemoteChance is the probability of a gradual demotion.
	DemoteChance = 0.5

	// LatencySpikeFactor caps promotions when the answer took more than
	// this multiple of the learner's average latency.
	LatencySpikeFactor = 2.0
)

// Tracker derives difficulty levels from exercise results.
type Tracker struct {
	rand RandomSource
}

// NewTracker creates a tracker using the given randomness source.
// A nil source falls back to a time-seeded one.
func NewTracker(r RandomSource) *Tracker {
	if r == nil {
		r = NewSeeded(time.Now().UnixNano())
	}
	return &Tracker{rand: r}
}

// Update folds one result into the profile and returns the new profile.
// prev is nil when the category has never been seen; the profile is then
// initialized at Medium with counters seeded from this single result.
// Update never mutates prev.
func (t *Tracker) Update(prev *SkillLevel, res Result) SkillLevel {
	if prev == nil {
		return initialSkill(res)
	}

	next := *prev
	next.LastUpdated = res.Timestamp

	if res.Correct {
		next.ConsecutiveCorrect = prev.ConsecutiveCorrect + 1
		next.ConsecutiveIncorrect = 0
	} else {
		next.ConsecutiveIncorrect = prev.ConsecutiveIncorrect + 1
		next.ConsecutiveCorrect = 0
	}

	sample := 0.0
	if res.Correct {
		sample = 1.0
	}
	next.RecentAccuracy = AccuracyAlpha*sample + (1-AccuracyAlpha)*prev.RecentAccuracy
	next.AverageLatencyMs = (1-LatencyAlpha)*prev.AverageLatencyMs + LatencyAlpha*float64(res.LatencyMs)

	next.Current = t.decide(prev.Current, &next)

	// Guards can only suppress an increase, never force a decrease.
	if next.Current > prev.Current {
		// A latency spike relative to the pre-update average means the
		// answer was a struggle, whatever the accuracy says.
		if prev.AverageLatencyMs > 0 && float64(res.LatencyMs) > LatencySpikeFactor*prev.AverageLatencyMs {
			next.Current = prev.Current
		}
		// A hinted correct answer must not count as mastery.
		if res.Correct && res.HintsUsed > 0 {
			next.Current = prev.Current
		}
	}

	return next
}

// decide evaluates the adjustment rules in precedence order: the fast
// streak rules win over the gradual probabilistic ones.
func (t *Tracker) decide(current Level, s *SkillLevel) Level {
	switch {
	case s.ConsecutiveCorrect >= FastPromoteStreak && s.RecentAccuracy >= PromoteThreshold:
		return (current + 1).Clamp()
	case s.ConsecutiveIncorrect >= FastDemoteStreak && s.RecentAccuracy <= DemoteThreshold:
		return (current - 1).Clamp()
	case s.RecentAccuracy >= PromoteThreshold:
		if t.rand.Uniform() < PromoteChance {
			return (current + 1).Clamp()
		}
	case s.RecentAccuracy <= DemoteThreshold:
		if t.rand.Uniform() < DemoteChance {
			return (current - 1).Clamp()
		}
	}
	return current
}

func initialSkill(res Result) SkillLevel {
	s := SkillLevel{
		Category:         res.Category,
		Current:          Medium,
		AverageLatencyMs: float64(res.LatencyMs),
		LastUpdated:      res.Timestamp,
	}
	if res.Correct {
		s.RecentAccuracy = 1.0
		s.ConsecutiveCorrect = 1
	} else {
		s.RecentAccuracy = 0.0
		s.ConsecutiveIncorrect = 1
	}
	return s
}
