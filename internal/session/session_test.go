package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/frasebot/pkg/models"
)

// fakeStore records progress calls and can inject failures
type fakeStore struct {
	learned         []int64
	completionCalls int
	streak          models.Streak

	markErr       error
	completionErr error
}

func (f *fakeStore) MarkLearned(_ context.Context, phraseID int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.learned = append(f.learned, phraseID)
	return nil
}

func (f *fakeStore) RecordCompletionToday(_ context.Context) error {
	if f.completionErr != nil {
		return f.completionErr
	}
	f.completionCalls++
	return nil
}

func (f *fakeStore) CurrentStreak(_ context.Context) (models.Streak, error) {
	return f.streak, nil
}

// seqRand replays a scripted sequence of picks
type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) Intn(n int) int {
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[r.i%len(r.seq)]
	r.i++
	return v % n
}

func testCatalog(n int) []models.Phrase {
	phrases := make([]models.Phrase, 0, n)
	for i := 1; i <= n; i++ {
		phrases = append(phrases, models.Phrase{
			ID:         int64(i),
			SourceText: fmt.Sprintf("english sentence %d", i),
			TargetText: fmt.Sprintf("frase portuguesa %d", i),
		})
	}
	return phrases
}

// curatedCatalog contains the daily curated phrases scattered among
// filler entries
func curatedCatalog() []models.Phrase {
	catalog := testCatalog(8)
	catalog[2].TargetText = "Bom dia, como você está?"
	catalog[2].SourceText = "Good morning, how are you?"
	catalog[5].TargetText = "Obrigado pela sua ajuda."
	catalog[5].SourceText = "Thank you for your help."
	catalog[7].TargetText = "Até amanhã!"
	catalog[7].SourceText = "See you tomorrow!"
	return catalog
}

func TestPlanTargets(t *testing.T) {
	assert.Equal(t, 3, PlanDaily.Target())
	assert.Equal(t, 10, PlanWeekly.Target())
	assert.Equal(t, 20, PlanMonthly.Target())
}

func TestPlanSelect_DailyCurated(t *testing.T) {
	active := PlanDaily.Select(curatedCatalog())

	require.Len(t, active, 3)
	assert.Equal(t, "Bom dia, como você está?", active[0].TargetText)
	assert.Equal(t, "Obrigado pela sua ajuda.", active[1].TargetText)
	assert.Equal(t, "Até amanhã!", active[2].TargetText)
}

func TestPlanSelect_DailyFallback(t *testing.T) {
	// None of the curated texts exist: fall back to the first three
	// catalog entries in catalog order.
	catalog := testCatalog(8)
	active := PlanDaily.Select(catalog)

	require.Len(t, active, 3)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(2), active[1].ID)
	assert.Equal(t, int64(3), active[2].ID)
}

func TestPlanSelect_PrefixPlans(t *testing.T) {
	catalog := testCatalog(15)

	weekly := PlanWeekly.Select(catalog)
	require.Len(t, weekly, 10)
	assert.Equal(t, int64(1), weekly[0].ID)
	assert.Equal(t, int64(10), weekly[9].ID)

	// Catalog smaller than the monthly target
	monthly := PlanMonthly.Select(catalog)
	assert.Len(t, monthly, 15)
}

func TestEngine_SubmitBeforeStart(t *testing.T) {
	eng := NewWithRand(testCatalog(5), &fakeStore{}, &seqRand{})

	_, err := eng.Submit(context.Background(), "qualquer coisa", models.SourceToTarget)
	assert.ErrorIs(t, err, ErrNoActivePhrase)
	assert.Equal(t, StateNotStarted, eng.State())
}

func TestEngine_WrongAnswerDoesNotAdvance(t *testing.T) {
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	before, ok := eng.Current()
	require.True(t, ok)

	res, err := eng.Submit(context.Background(), "resposta totalmente errada aqui", models.SourceToTarget)
	require.NoError(t, err)

	assert.False(t, res.Correct)
	assert.Equal(t, before.TargetText, res.Expected, "feedback must carry the expected answer")
	assert.Equal(t, 0, res.Completed)
	assert.Empty(t, store.learned)
	assert.Equal(t, StateInProgress, eng.State())

	after, ok := eng.Current()
	require.True(t, ok)
	assert.Equal(t, before.ID, after.ID, "current phrase must not advance on a miss")
}

func TestEngine_DailyCompletion(t *testing.T) {
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		cur, ok := eng.Current()
		require.True(t, ok, "answer %d should have a current phrase", i+1)

		res, err := eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
		require.NoError(t, err)
		assert.True(t, res.Correct)
		assert.Equal(t, i+1, res.Completed)

		if i < 2 {
			assert.False(t, res.Finished)
		} else {
			assert.True(t, res.Finished)
		}
	}

	assert.Equal(t, StateFinished, eng.State())
	assert.Len(t, store.learned, 3)
	assert.Equal(t, 1, store.completionCalls, "completion must be recorded exactly once")

	_, ok := eng.Current()
	assert.False(t, ok)

	_, err := eng.Submit(ctx, "tarde demais", models.SourceToTarget)
	assert.ErrorIs(t, err, ErrNoActivePhrase)
}

func TestEngine_LearnedPhrasesAreDistinct(t *testing.T) {
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{2, 1, 0}})
	eng.Start(PlanDaily)

	ctx := context.Background()
	for eng.State() == StateInProgress {
		cur, _ := eng.Current()
		_, err := eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
		require.NoError(t, err)
	}

	seen := make(map[int64]bool)
	for _, id := range store.learned {
		assert.False(t, seen[id], "phrase %d marked learned twice", id)
		seen[id] = true
	}
}

func TestEngine_PickNextSkipsCompleted(t *testing.T) {
	// Real randomness: whatever the order, the same phrase must never
	// be asked twice and every pick must come from the active set.
	store := &fakeStore{}
	eng := New(testCatalog(12), store)
	eng.Start(PlanWeekly)

	ctx := context.Background()
	asked := make(map[int64]bool)
	for eng.State() == StateInProgress {
		cur, ok := eng.Current()
		require.True(t, ok)
		assert.False(t, asked[cur.ID], "phrase %d asked again after completion", cur.ID)
		assert.LessOrEqual(t, cur.ID, int64(10), "picked phrase outside the active set")
		asked[cur.ID] = true

		_, err := eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
		require.NoError(t, err)
	}

	assert.Equal(t, StateFinished, eng.State())
	assert.Len(t, asked, 10)
}

func TestEngine_ExhaustedBelowTarget(t *testing.T) {
	// Only two phrases but the daily target is three: the engine must
	// report exhaustion, never claim the session finished.
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(2), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	ctx := context.Background()
	var last Result
	for eng.State() == StateInProgress {
		cur, _ := eng.Current()
		res, err := eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
		require.NoError(t, err)
		last = res
	}

	assert.Equal(t, StateExhausted, eng.State())
	assert.True(t, last.Exhausted)
	assert.False(t, last.Finished)
	assert.Equal(t, 2, eng.CompletedCount())
	assert.Equal(t, 0, store.completionCalls, "an exhausted session is not a completion")

	_, err := eng.Submit(ctx, "nada", models.SourceToTarget)
	assert.ErrorIs(t, err, ErrNoActivePhrase)
}

func TestEngine_StartWithEmptyCatalog(t *testing.T) {
	eng := NewWithRand(nil, &fakeStore{}, &seqRand{})
	eng.Start(PlanWeekly)

	assert.Equal(t, StateExhausted, eng.State())
	_, ok := eng.Current()
	assert.False(t, ok)
}

func TestEngine_Restart(t *testing.T) {
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	ctx := context.Background()
	cur, _ := eng.Current()
	_, err := eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
	require.NoError(t, err)
	require.Equal(t, 1, eng.CompletedCount())

	eng.Restart()

	assert.Equal(t, StateInProgress, eng.State())
	assert.Equal(t, 0, eng.CompletedCount(), "restart must clear session-local state")
	assert.Equal(t, PlanDaily, eng.Plan())
	_, ok := eng.Current()
	assert.True(t, ok)
}

func TestEngine_RestartBeforeStart(t *testing.T) {
	eng := NewWithRand(testCatalog(5), &fakeStore{}, &seqRand{})
	eng.Restart()
	assert.Equal(t, StateNotStarted, eng.State())
}

func TestEngine_TargetToSourceDirection(t *testing.T) {
	store := &fakeStore{}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	cur, _ := eng.Current()
	res, err := eng.Submit(context.Background(), cur.SourceText, models.TargetToSource)
	require.NoError(t, err)
	assert.True(t, res.Correct)
}

func TestEngine_StoreErrorsPropagate(t *testing.T) {
	markErr := errors.New("disk on fire")
	store := &fakeStore{markErr: markErr}
	eng := NewWithRand(testCatalog(5), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	cur, _ := eng.Current()
	_, err := eng.Submit(context.Background(), cur.TargetText, models.SourceToTarget)
	assert.ErrorIs(t, err, markErr)
}

func TestEngine_CompletionErrorPropagates(t *testing.T) {
	completionErr := errors.New("streak table locked")
	store := &fakeStore{completionErr: completionErr}
	eng := NewWithRand(testCatalog(3), store, &seqRand{seq: []int{0}})
	eng.Start(PlanDaily)

	ctx := context.Background()
	var err error
	for i := 0; i < 3; i++ {
		cur, ok := eng.Current()
		require.True(t, ok)
		_, err = eng.Submit(ctx, cur.TargetText, models.SourceToTarget)
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, completionErr)
}
