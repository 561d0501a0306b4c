package session

import "time"

// Summary reports how a session went.
type Summary struct {
	SessionID  string
	LearnerID  string
	Category   string
	Served     int
	Correct    int
	Reviews    int
	Accuracy   float64
	FinalSkill *SkillSnapshot
	StartedAt  time.Time
	Duration   time.Duration
}

// SkillSnapshot is the learner's profile for the session category at
// summary time.
type SkillSnapshot struct {
	Level            int
	RecentAccuracy   float64
	AverageLatencyMs float64
}

// Summary returns the session's results so far. It is valid at any phase.
func (s *Session) Summary() Summary {
	sum := Summary{
		SessionID: s.ID,
		LearnerID: s.LearnerID,
		Category:  s.Category,
		Served:    s.served,
		Correct:   s.correct,
		Reviews:   s.reviews,
		StartedAt: s.startedAt,
	}
	if s.served > 0 {
		sum.Accuracy = float64(s.correct) / float64(s.served)
	}
	if sl := s.skill(); sl != nil {
		sum.FinalSkill = &SkillSnapshot{
			Level:            int(sl.Current),
			RecentAccuracy:   sl.RecentAccuracy,
			AverageLatencyMs: sl.AverageLatencyMs,
		}
	}
	if !s.startedAt.IsZero() {
		sum.Duration = s.deps.Clock.Now().Sub(s.startedAt)
	}
	return sum
}
