package difficulty

// Level is a discrete exercise difficulty tier. The engine reasons about
// levels numerically; display labels live in a separate lookup so
// presentation never leaks into the policy logic.
type Level int

const (
	VeryEasy Level = iota + 1
	Easy
	Medium
	Hard
	VeryHard
)

const (
	// MinLevel and MaxLevel bound every difficulty decision.
	MinLevel = VeryEasy
	MaxLevel = VeryHard
)

var labels = map[Level]string{
	VeryEasy: "very easy",
	Easy:     "easy",
	Medium:   "medium",
	Hard:     "hard",
	VeryHard: "very hard",
}

func (l Level) String() string {
	if s, ok := labels[l]; ok {
		return s
	}
	return "unknown"
}

// Clamp bounds l to the valid [MinLevel, MaxLevel] range.
func (l Level) Clamp() Level {
	if l < MinLevel {
		return MinLevel
	}
	if l > MaxLevel {
		return MaxLevel
	}
	return l
}
