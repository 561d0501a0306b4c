package difficulty

import (
	"math"
	"testing"
	"time"
)

// stubRand returns a scripted sequence of uniform draws.
type stubRand struct {
	vals []float64
	i    int
}

func (s *stubRand) Uniform() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var resultTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func result(correct bool, latencyMs int64, hints int) Result {
	return Result{
		ExerciseID: "ex-1",
		Category:   "vocabulary",
		Presented:  Medium,
		Correct:    correct,
		LatencyMs:  latencyMs,
		HintsUsed:  hints,
		Timestamp:  resultTime,
	}
}

func TestUpdate_InitializesOnFirstResult(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.99}})

	got := tr.Update(nil, result(true, 1500, 0))
	if got.Current != Medium {
		t.Errorf("Current = %v, want Medium", got.Current)
	}
	if got.RecentAccuracy != 1.0 {
		t.Errorf("RecentAccuracy = %v, want 1.0", got.RecentAccuracy)
	}
	if got.ConsecutiveCorrect != 1 || got.ConsecutiveIncorrect != 0 {
		t.Errorf("counters = (%d, %d), want (1, 0)", got.ConsecutiveCorrect, got.ConsecutiveIncorrect)
	}
	if got.AverageLatencyMs != 1500 {
		t.Errorf("AverageLatencyMs = %v, want 1500", got.AverageLatencyMs)
	}

	got = tr.Update(nil, result(false, 1500, 0))
	if got.RecentAccuracy != 0.0 {
		t.Errorf("RecentAccuracy = %v, want 0.0", got.RecentAccuracy)
	}
	if got.ConsecutiveCorrect != 0 || got.ConsecutiveIncorrect != 1 {
		t.Errorf("counters = (%d, %d), want (0, 1)", got.ConsecutiveCorrect, got.ConsecutiveIncorrect)
	}
}

func TestUpdate_MovingAverages(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.99}})
	prev := &SkillLevel{
		Category:         "vocabulary",
		Current:          Medium,
		RecentAccuracy:   0.5,
		AverageLatencyMs: 1000,
	}

	got := tr.Update(prev, result(true, 2000, 0))
	if math.Abs(got.RecentAccuracy-0.65) > 1e-9 {
		t.Errorf("RecentAccuracy = %v, want 0.65", got.RecentAccuracy)
	}
	if math.Abs(got.AverageLatencyMs-1200) > 1e-9 {
		t.Errorf("AverageLatencyMs = %v, want 1200", got.AverageLatencyMs)
	}
}

func TestUpdate_FastPromote(t *testing.T) {
	// RNG scripted to never fire: the fast rule must not consult it.
	tr := NewTracker(&stubRand{vals: []float64{0.99}})
	prev := &SkillLevel{
		Category:           "vocabulary",
		Current:            Medium,
		RecentAccuracy:     0.9,
		ConsecutiveCorrect: 2,
		AverageLatencyMs:   1000,
	}

	got := tr.Update(prev, result(true, 900, 0))
	if got.Current != Hard {
		t.Errorf("Current = %v, want Hard", got.Current)
	}
	if got.ConsecutiveCorrect != 3 {
		t.Errorf("ConsecutiveCorrect = %d, want 3", got.ConsecutiveCorrect)
	}
}

func TestUpdate_FastDemoteByExactlyOne(t *testing.T) {
	for _, rng := range []float64{0.0, 0.99} {
		tr := NewTracker(&stubRand{vals: []float64{rng}})
		prev := &SkillLevel{
			Category:             "vocabulary",
			Current:              Hard,
			RecentAccuracy:       0.5,
			ConsecutiveIncorrect: 1,
			AverageLatencyMs:     1000,
		}

		got := tr.Update(prev, result(false, 1000, 0))
		if got.Current != Medium {
			t.Errorf("rng=%v: Current = %v, want Medium (exactly one step down)", rng, got.Current)
		}
	}
}

func TestUpdate_ProbabilisticPromote(t *testing.T) {
	prev := &SkillLevel{
		Category:         "vocabulary",
		Current:          Medium,
		RecentAccuracy:   0.9,
		AverageLatencyMs: 1000,
	}

	tr := NewTracker(&stubRand{vals: []float64{0.1}})
	if got := tr.Update(prev, result(true, 900, 0)); got.Current != Hard {
		t.Errorf("draw 0.1: Current = %v, want Hard", got.Current)
	}

	tr = NewTracker(&stubRand{vals: []float64{0.9}})
	if got := tr.Update(prev, result(true, 900, 0)); got.Current != Medium {
		t.Errorf("draw 0.9: Current = %v, want Medium", got.Current)
	}
}

func TestUpdate_ProbabilisticDemote(t *testing.T) {
	prev := &SkillLevel{
		Category:         "vocabulary",
		Current:          Medium,
		RecentAccuracy:   0.4,
		AverageLatencyMs: 1000,
	}

	tr := NewTracker(&stubRand{vals: []float64{0.4}})
	if got := tr.Update(prev, result(false, 1000, 0)); got.Current != Easy {
		t.Errorf("draw 0.4: Current = %v, want Easy", got.Current)
	}

	tr = NewTracker(&stubRand{vals: []float64{0.7}})
	if got := tr.Update(prev, result(false, 1000, 0)); got.Current != Medium {
		t.Errorf("draw 0.7: Current = %v, want Medium", got.Current)
	}
}

func TestUpdate_HintGuardBlocksPromotion(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.0}})
	prev := &SkillLevel{
		Category:           "vocabulary",
		Current:            Medium,
		RecentAccuracy:     0.95,
		ConsecutiveCorrect: 5,
		AverageLatencyMs:   1000,
	}

	got := tr.Update(prev, result(true, 900, 1))
	if got.Current != Medium {
		t.Errorf("Current = %v, want Medium (hinted answer must not promote)", got.Current)
	}
}

func TestUpdate_LatencySpikeBlocksPromotion(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.0}})
	prev := &SkillLevel{
		Category:           "vocabulary",
		Current:            Medium,
		RecentAccuracy:     0.95,
		ConsecutiveCorrect: 5,
		AverageLatencyMs:   1000,
	}

	got := tr.Update(prev, result(true, 2500, 0))
	if got.Current != Medium {
		t.Errorf("Current = %v, want Medium (latency spike must not promote)", got.Current)
	}
}

func TestUpdate_GuardsDoNotBlockDemotion(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.99}})
	prev := &SkillLevel{
		Category:             "vocabulary",
		Current:              Hard,
		RecentAccuracy:       0.4,
		ConsecutiveIncorrect: 1,
		AverageLatencyMs:     1000,
	}

	// Wrong answer with hints and a latency spike: the guards only cap
	// increases, so the fast demotion still applies.
	got := tr.Update(prev, result(false, 5000, 2))
	if got.Current != Medium {
		t.Errorf("Current = %v, want Medium", got.Current)
	}
}

func TestUpdate_ClampAtBounds(t *testing.T) {
	tr := NewTracker(&stubRand{vals: []float64{0.0}})

	top := &SkillLevel{
		Category:           "vocabulary",
		Current:            VeryHard,
		RecentAccuracy:     0.95,
		ConsecutiveCorrect: 5,
		AverageLatencyMs:   1000,
	}
	if got := tr.Update(top, result(true, 900, 0)); got.Current != VeryHard {
		t.Errorf("Current = %v, want VeryHard", got.Current)
	}

	bottom := &SkillLevel{
		Category:             "vocabulary",
		Current:              VeryEasy,
		RecentAccuracy:       0.3,
		ConsecutiveIncorrect: 3,
		AverageLatencyMs:     1000,
	}
	if got := tr.Update(bottom, result(false, 1000, 0)); got.Current != VeryEasy {
		t.Errorf("Current = %v, want VeryEasy", got.Current)
	}
}

func TestUpdate_InvariantsOverRandomSequence(t *testing.T) {
	tr := NewTracker(NewSeeded(42))
	rng := NewSeeded(1)

	var skill *SkillLevel
	for i := 0; i < 500; i++ {
		correct := rng.Uniform() < 0.7
		latency := int64(500 + rng.Uniform()*3000)
		hints := 0
		if rng.Uniform() < 0.1 {
			hints = 1
		}

		next := tr.Update(skill, result(correct, latency, hints))
		if next.Current < MinLevel || next.Current > MaxLevel {
			t.Fatalf("step %d: Current = %v out of bounds", i, next.Current)
		}
		if next.RecentAccuracy < 0 || next.RecentAccuracy > 1 {
			t.Fatalf("step %d: RecentAccuracy = %v out of bounds", i, next.RecentAccuracy)
		}
		if next.ConsecutiveCorrect != 0 && next.ConsecutiveIncorrect != 0 {
			t.Fatalf("step %d: counters (%d, %d) not mutually exclusive",
				i, next.ConsecutiveCorrect, next.ConsecutiveIncorrect)
		}
		skill = &next
	}
}

func TestUpdate_PureFunction(t *testing.T) {
	prev := &SkillLevel{
		Category:         "vocabulary",
		Current:          Medium,
		RecentAccuracy:   0.9,
		AverageLatencyMs: 1000,
	}
	before := *prev
	res := result(true, 900, 0)

	first := NewTracker(&stubRand{vals: []float64{0.1}}).Update(prev, res)
	second := NewTracker(&stubRand{vals: []float64{0.1}}).Update(prev, res)

	if first != second {
		t.Errorf("same input, same draws: %+v != %+v", first, second)
	}
	if *prev != before {
		t.Errorf("input skill mutated: %+v", *prev)
	}
}
