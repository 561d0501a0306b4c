package difficulty

import "math/rand"

// RandomSource supplies uniform randomness for the probabilistic
// adjustment rules. Injected rather than calling the global RNG so the
// probabilistic paths are reproducible under test with a fixed seed.
type RandomSource interface {
	// Uniform returns a value in [0, 1).
	Uniform() float64
}

// NewSeeded returns a RandomSource backed by math/rand with the given seed.
func NewSeeded(seed int64) RandomSource {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

type seededSource struct{ r *rand.Rand }

func (s *seededSource) Uniform() float64 { return s.r.Float64() }
