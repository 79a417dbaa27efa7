// Package session manages one practice session's lifecycle from plan
// selection to completion: which phrases are asked, which are done,
// and when the learner's all-time progress gets recorded.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/frasebot/internal/matcher"
	"github.com/example/frasebot/pkg/models"
)

// ProgressStore persists all-time learning progress. MarkLearned has
// set-insert semantics and must be idempotent; RecordCompletionToday
// applies the streak policy and is a no-op when called twice on the
// same calendar day.
type ProgressStore interface {
	MarkLearned(ctx context.Context, phraseID int64) error
	RecordCompletionToday(ctx context.Context) error
	CurrentStreak(ctx context.Context) (models.Streak, error)
}

// Rand supplies the randomness used to pick the next phrase, so tests
// can script the selection order.
type Rand interface {
	Intn(n int) int
}

// State represents where the engine is in a session's lifecycle
type State string

const (
	// StateNotStarted means no plan has been chosen yet
	StateNotStarted State = "not_started"
	// StateInProgress means a phrase is currently being asked
	StateInProgress State = "in_progress"
	// StateExhausted means no uncompleted phrase remains but the plan
	// target was not reached; the session cannot finish
	StateExhausted State = "exhausted"
	// StateFinished means the plan target was reached
	StateFinished State = "finished"
)

// ErrNoActivePhrase is returned by Submit when there is no phrase
// being asked. Callers should check State before submitting.
var ErrNoActivePhrase = errors.New("session: no active phrase")

// Result reports the outcome of one submitted answer
type Result struct {
	Correct   bool
	Expected  string // the expected answer, shown as feedback on a miss
	Finished  bool   // the plan target was reached with this answer
	Exhausted bool   // nothing left to ask but the target was not reached
	Completed int
	Target    int
}

// Engine runs practice sessions over a fixed phrase catalog. It is a
// single-goroutine state machine: every transition runs synchronously
// to completion and holds no locks.
type Engine struct {
	catalog []models.Phrase
	store   ProgressStore
	rnd     Rand

	plan      Plan
	active    []models.Phrase
	completed map[int64]bool
	current   *models.Phrase
	state     State
}

// New creates an engine over the given catalog. The catalog order is
// the selection order for the weekly and monthly plans.
func New(catalog []models.Phrase, store ProgressStore) *Engine {
	return NewWithRand(catalog, store, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an engine with an explicit random source
func NewWithRand(catalog []models.Phrase, store ProgressStore, rnd Rand) *Engine {
	return &Engine{
		catalog:   catalog,
		store:     store,
		rnd:       rnd,
		completed: make(map[int64]bool),
		state:     StateNotStarted,
	}
}

// Start begins a new session under the given plan, clearing any
// session-local state from a previous run.
func (e *Engine) Start(plan Plan) {
	e.plan = plan
	e.active = plan.Select(e.catalog)
	e.completed = make(map[int64]bool)
	e.current = nil

	if len(e.active) == 0 {
		e.state = StateExhausted
		return
	}

	e.current = &e.active[e.rnd.Intn(len(e.active))]
	e.state = StateInProgress
}

// Restart begins a fresh session under the same plan
func (e *Engine) Restart() {
	if e.plan == "" {
		return
	}
	e.Start(e.plan)
}

// Submit checks the candidate answer against the current phrase. On a
// correct answer the phrase is marked completed and learned, and the
// engine either finishes, picks the next phrase, or reports
// exhaustion. On a wrong answer nothing advances and the result
// carries the expected text as feedback.
//
// Progress store failures are surfaced to the caller; the engine does
// not retry.
func (e *Engine) Submit(ctx context.Context, candidate string, direction models.Direction) (Result, error) {
	if e.state != StateInProgress || e.current == nil {
		return Result{}, ErrNoActivePhrase
	}

	phrase := *e.current
	expected := direction.Expected(phrase)

	if !matcher.IsCloseEnough(candidate, expected) {
		return Result{
			Expected:  expected,
			Completed: len(e.completed),
			Target:    e.plan.Target(),
		}, nil
	}

	e.completed[phrase.ID] = true
	if err := e.store.MarkLearned(ctx, phrase.ID); err != nil {
		return Result{}, fmt.Errorf("mark phrase %d learned: %w", phrase.ID, err)
	}

	res := Result{
		Correct:   true,
		Expected:  expected,
		Completed: len(e.completed),
		Target:    e.plan.Target(),
	}

	if len(e.completed) >= e.plan.Target() {
		e.state = StateFinished
		e.current = nil
		if err := e.store.RecordCompletionToday(ctx); err != nil {
			return Result{}, fmt.Errorf("record session completion: %w", err)
		}
		res.Finished = true
		return res, nil
	}

	if !e.pickNext() {
		// Target not reached but nothing left to ask. Happens when the
		// active set is smaller than the plan target.
		e.state = StateExhausted
		res.Exhausted = true
	}

	return res, nil
}

// pickNext chooses the next phrase uniformly at random among the
// active phrases not yet completed. It reports false when none remain.
func (e *Engine) pickNext() bool {
	remaining := make([]*models.Phrase, 0, len(e.active))
	for i := range e.active {
		if !e.completed[e.active[i].ID] {
			remaining = append(remaining, &e.active[i])
		}
	}

	if len(remaining) == 0 {
		e.current = nil
		return false
	}

	e.current = remaining[e.rnd.Intn(len(remaining))]
	return true
}

// State returns the engine's current lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Plan returns the plan of the current or most recent session
func (e *Engine) Plan() Plan {
	return e.plan
}

// Current returns the phrase being asked, if any
func (e *Engine) Current() (models.Phrase, bool) {
	if e.current == nil {
		return models.Phrase{}, false
	}
	return *e.current, true
}

// CompletedCount returns how many phrases were answered correctly in
// this session
func (e *Engine) CompletedCount() int {
	return len(e.completed)
}

// ActiveCount returns the size of the active set
func (e *Engine) ActiveCount() int {
	return len(e.active)
}
