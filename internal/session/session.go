// Package session drives one learner's practice run: it pulls exercises
// from the selector, grades submitted answers, fans results out to the
// difficulty tracker and the spaced repetition scheduler, and persists
// updated state at each step boundary.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lexio/internal/clock"
	"github.com/abhisek/lexio/internal/difficulty"
	"github.com/abhisek/lexio/internal/selector"
	"github.com/abhisek/lexio/internal/srs"
)

var (
	// ErrNotStarted is returned when the session is used before Start.
	ErrNotStarted = errors.New("session: not started")

	// ErrNoActiveExercise is returned by Submit when nothing is awaiting
	// a response.
	ErrNoActiveExercise = errors.New("session: no active exercise")

	// ErrCompleted is returned by Next once the planned length is exhausted.
	ErrCompleted = errors.New("session: completed")

	// ErrDuplicateAttempt is returned when the store already holds a
	// result for the attempt but this process has no cached outcome to
	// replay. The attempt's transitions were applied exactly once by
	// whoever recorded it first.
	ErrDuplicateAttempt = errors.New("session: attempt already recorded")
)

// Phase is the session's position in its lifecycle. Scoring and Advancing
// are passed through synchronously inside Submit; callers observe Idle,
// AwaitingResponse, and Completed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingResponse
	PhaseScoring
	PhaseAdvancing
	PhaseCompleted
)

// DefaultLength is the planned number of exercises per session.
const DefaultLength = 10

// Grader decides whether a learner's answer to an exercise is correct.
type Grader interface {
	Grade(ctx context.Context, exerciseID, answer string) (bool, error)
}

// Store persists learner state at the step boundary. AppendResult is the
// idempotency gate keyed by (learnerID, attemptID): it returns false when
// the attempt was already recorded, in which case no state transition may
// be re-applied.
type Store interface {
	LoadLearnerState(ctx context.Context, learnerID string) (map[string]difficulty.SkillLevel, map[string]srs.CardState, error)
	SaveSkillLevel(ctx context.Context, learnerID string, skill difficulty.SkillLevel) error
	SaveCardState(ctx context.Context, learnerID string, card srs.CardState) error
	AppendResult(ctx context.Context, learnerID, attemptID string, res difficulty.Result) (bool, error)
}

// Config tunes a session. Zero values fall back to defaults.
type Config struct {
	Length           int
	AntiRepeatWindow int
}

// Deps are the collaborators a session needs.
type Deps struct {
	Selector *selector.Selector
	Tracker  *difficulty.Tracker
	Grader   Grader
	Store    Store
	Clock    clock.Clock
}

// Attempt is one in-flight exercise presentation.
type Attempt struct {
	ID         string
	ExerciseID string
	Level      difficulty.Level
	Reviewable bool
	IsReview   bool
	ServedAt   time.Time
}

// Outcome is the scored result of one attempt.
type Outcome struct {
	AttemptID  string
	ExerciseID string
	Correct    bool
	Quality    srs.Quality
	Skill      difficulty.SkillLevel
	Card       *srs.CardState // nil when the exercise has no review card
	Duplicate  bool           // true when this replays an already-scored attempt
}

// Session runs one learner's practice in a single category. A session is
// single-writer: it must be driven by one goroutine at a time.
type Session struct {
	ID        string
	LearnerID string
	Category  string

	cfg  Config
	deps Deps

	phase     Phase
	skills    map[string]difficulty.SkillLevel
	cards     map[string]srs.CardState
	recent    []string
	current   *Attempt
	hintsUsed int
	outcomes  map[string]*Outcome
	served    int
	correct   int
	reviews   int
	startedAt time.Time
}

// New creates a session for the learner and category.
func New(learnerID, category string, deps Deps, cfg Config) *Session {
	if cfg.Length <= 0 {
		cfg.Length = DefaultLength
	}
	if cfg.AntiRepeatWindow <= 0 {
		cfg.AntiRepeatWindow = selector.DefaultAntiRepeatWindow
	}
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	return &Session{
		ID:        uuid.New().String(),
		LearnerID: learnerID,
		Category:  category,
		cfg:       cfg,
		deps:      deps,
		phase:     PhaseIdle,
		outcomes:  make(map[string]*Outcome),
	}
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Start loads the learner's persisted state. Must be called before Next.
func (s *Session) Start(ctx context.Context) error {
	skills, cards, err := s.deps.Store.LoadLearnerState(ctx, s.LearnerID)
	if err != nil {
		return fmt.Errorf("load learner state: %w", err)
	}
	if skills == nil {
		skills = make(map[string]difficulty.SkillLevel)
	}
	if cards == nil {
		cards = make(map[string]srs.CardState)
	}
	s.skills = skills
	s.cards = cards
	s.startedAt = s.deps.Clock.Now()
	return nil
}

// Next selects and serves the next exercise. Calling Next while an
// attempt is still awaiting a response re-serves that attempt, which lets
// callers recover a lost prompt.
func (s *Session) Next(ctx context.Context) (*Attempt, error) {
	if s.skills == nil {
		return nil, ErrNotStarted
	}
	switch s.phase {
	case PhaseCompleted:
		return nil, ErrCompleted
	case PhaseAwaitingResponse:
		return s.current, nil
	}

	// Every item with a card counts as seen: it only comes back when its
	// schedule says so, never through the new-content path.
	seen := make([]string, 0, len(s.cards))
	for id := range s.cards {
		seen = append(seen, id)
	}

	now := s.deps.Clock.Now()
	sel, err := s.deps.Selector.Next(ctx, s.LearnerID, s.Category, s.skill(), s.recent, seen, now)
	if err != nil {
		return nil, err
	}

	s.current = &Attempt{
		ID:         uuid.New().String(),
		ExerciseID: sel.ExerciseID,
		Level:      sel.Level,
		Reviewable: sel.Reviewable,
		IsReview:   sel.IsReview,
		ServedAt:   now,
	}
	s.hintsUsed = 0
	s.pushRecent(sel.ExerciseID)
	s.served++
	if sel.IsReview {
		s.reviews++
	}
	s.phase = PhaseAwaitingResponse
	return s.current, nil
}

// UseHint records that a hint was revealed for the current exercise. A
// hinted correct answer is capped by the tracker's mastery guard.
func (s *Session) UseHint() {
	if s.phase == PhaseAwaitingResponse {
		s.hintsUsed++
	}
}

// Abandon discards the in-flight attempt without scoring it and returns
// the session to a selectable state. Used when a served exercise turns
// out to be unanswerable, e.g. its content left the bank. The abandoned
// exercise stays in the anti-repeat window; the step is not counted.
func (s *Session) Abandon() {
	if s.phase != PhaseAwaitingResponse || s.current == nil {
		return
	}
	s.served--
	if s.current.IsReview {
		s.reviews--
	}
	s.current = nil
	s.phase = PhaseIdle
}

// Submit grades the answer for the in-flight attempt, applies the result
// to the difficulty tracker and (for reviewable exercises) the spaced
// repetition scheduler, persists the updated state, and advances.
//
// A duplicate submit for an already-scored attempt returns the cached
// outcome without re-applying any transition.
func (s *Session) Submit(ctx context.Context, answer string) (*Outcome, error) {
	if s.skills == nil {
		return nil, ErrNotStarted
	}
	if s.current == nil {
		return nil, ErrNoActiveExercise
	}
	if prev, ok := s.outcomes[s.current.ID]; ok {
		dup := *prev
		dup.Duplicate = true
		return &dup, nil
	}
	if s.phase != PhaseAwaitingResponse {
		return nil, ErrNoActiveExercise
	}

	s.phase = PhaseScoring
	attempt := s.current
	now := s.deps.Clock.Now()

	ok, err := s.deps.Grader.Grade(ctx, attempt.ExerciseID, answer)
	if err != nil {
		s.phase = PhaseAwaitingResponse
		return nil, fmt.Errorf("grade answer: %w", err)
	}

	res := difficulty.Result{
		ExerciseID: attempt.ExerciseID,
		Category:   s.Category,
		Presented:  attempt.Level,
		Correct:    ok,
		LatencyMs:  now.Sub(attempt.ServedAt).Milliseconds(),
		HintsUsed:  s.hintsUsed,
		Timestamp:  now,
	}

	// The event log is the idempotency gate: a retried submit that
	// already landed must not re-apply scheduler or tracker transitions.
	fresh, err := s.deps.Store.AppendResult(ctx, s.LearnerID, attempt.ID, res)
	if err != nil {
		s.phase = PhaseAwaitingResponse
		return nil, fmt.Errorf("append result: %w", err)
	}
	if !fresh {
		s.phase = PhaseAwaitingResponse
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAttempt, attempt.ID)
	}

	outcome, err := s.applyResult(ctx, attempt, res)
	if err != nil {
		return nil, err
	}

	s.phase = PhaseAdvancing
	s.outcomes[attempt.ID] = outcome
	if ok {
		s.correct++
	}
	if s.served >= s.cfg.Length {
		s.phase = PhaseCompleted
	}
	return outcome, nil
}

// applyResult feeds the result to the tracker, and to the scheduler when
// the exercise is tied to a reviewable card, persisting both.
func (s *Session) applyResult(ctx context.Context, attempt *Attempt, res difficulty.Result) (*Outcome, error) {
	prev := s.skill()
	prevAvgLatency := 0.0
	if prev != nil {
		prevAvgLatency = prev.AverageLatencyMs
	}

	newSkill := s.deps.Tracker.Update(prev, res)
	if err := s.deps.Store.SaveSkillLevel(ctx, s.LearnerID, newSkill); err != nil {
		return nil, fmt.Errorf("save skill level: %w", err)
	}
	s.skills[s.Category] = newSkill

	outcome := &Outcome{
		AttemptID:  attempt.ID,
		ExerciseID: attempt.ExerciseID,
		Correct:    res.Correct,
		Skill:      newSkill,
	}

	if attempt.Reviewable {
		card, ok := s.cards[attempt.ExerciseID]
		if !ok {
			// First exposure: the card is created lazily.
			card = srs.NewCardState(attempt.ExerciseID, attempt.ServedAt)
		}

		quality := DeriveQuality(res, prevAvgLatency)
		updated, err := srs.Review(card, quality, res.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("schedule review: %w", err)
		}
		if err := s.deps.Store.SaveCardState(ctx, s.LearnerID, updated); err != nil {
			return nil, fmt.Errorf("save card state: %w", err)
		}
		s.cards[attempt.ExerciseID] = updated
		outcome.Quality = quality
		outcome.Card = &updated
	}

	return outcome, nil
}

// skill returns the learner's profile for the session category, nil if
// the category has never been practiced.
func (s *Session) skill() *difficulty.SkillLevel {
	if sl, ok := s.skills[s.Category]; ok {
		return &sl
	}
	return nil
}

func (s *Session) pushRecent(exerciseID string) {
	s.recent = append(s.recent, exerciseID)
	if len(s.recent) > s.cfg.AntiRepeatWindow {
		s.recent = s.recent[len(s.recent)-s.cfg.AntiRepeatWindow:]
	}
}
