package difficulty

import "time"

// Result is a single graded exercise outcome. It is an ephemeral input
// event: the tracker folds it into the skill profile and it is otherwise
// only retained in the result event log.
type Result struct {
	ExerciseID string
	Category   string
	Presented  Level // difficulty at which the exercise was served
	Correct    bool
	LatencyMs  int64
	HintsUsed  int
	Timestamp  time.Time
}
