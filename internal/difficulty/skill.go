package difficulty

import "time"

// SkillLevel is the rolling performance profile for one skill category,
// scoped to one learner. Created on the first result in a category and
// kept for the learner's lifetime.
type SkillLevel struct {
	Category             string
	Current              Level
	RecentAccuracy       float64
	ConsecutiveCorrect   int
	ConsecutiveIncorrect int
	AverageLatencyMs     float64
	LastUpdated          time.Time
}
