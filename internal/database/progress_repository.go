package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/frasebot/pkg/models"
)

const dateLayout = "2006-01-02"

// ProgressRepository handles database operations for all-time learning
// progress: the set of learned phrases and the daily streak. It
// implements the session engine's ProgressStore.
type ProgressRepository struct {
	// now is replaceable so the streak date policy can be tested
	// against fixed days
	now func() time.Time
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{now: time.Now}
}

// MarkLearned records a phrase as learned. Set-insert semantics:
// marking the same phrase twice is a no-op.
func (r *ProgressRepository) MarkLearned(ctx context.Context, phraseID int64) error {
	var query string
	if Type() == "postgres" {
		query = "INSERT INTO learned_phrases (phrase_id) VALUES ($1) ON CONFLICT (phrase_id) DO NOTHING"
	} else {
		query = "INSERT OR IGNORE INTO learned_phrases (phrase_id) VALUES ($1)"
	}

	_, err := DB.ExecContext(ctx, query, phraseID)
	if err != nil {
		return fmt.Errorf("failed to mark phrase %d learned: %v", phraseID, err)
	}
	return nil
}

// IsLearned reports whether a phrase was ever answered correctly
func (r *ProgressRepository) IsLearned(ctx context.Context, phraseID int64) (bool, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM learned_phrases WHERE phrase_id = $1", phraseID)
	if err != nil {
		return false, fmt.Errorf("failed to check learned phrase: %v", err)
	}
	return count > 0, nil
}

// LearnedCount returns how many distinct phrases were ever learned
func (r *ProgressRepository) LearnedCount(ctx context.Context) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM learned_phrases")
	if err != nil {
		return 0, fmt.Errorf("failed to count learned phrases: %v", err)
	}
	return count, nil
}

// RecordCompletionToday applies the streak policy for a session
// completed today: same day is a no-op, a completion exactly one
// calendar day after the last one extends the streak, anything else
// resets it to 1.
func (r *ProgressRepository) RecordCompletionToday(ctx context.Context) error {
	streak, err := r.CurrentStreak(ctx)
	if err != nil {
		return err
	}

	today := r.now()
	next, changed := nextStreak(streak.Current, streak.LastCompleted, today)
	if !changed {
		return nil
	}

	var query string
	if Type() == "postgres" {
		query = `
			INSERT INTO streak (id, current_streak, last_completed) VALUES (1, $1, $2)
			ON CONFLICT (id) DO UPDATE SET current_streak = EXCLUDED.current_streak, last_completed = EXCLUDED.last_completed
		`
	} else {
		query = "INSERT OR REPLACE INTO streak (id, current_streak, last_completed) VALUES (1, $1, $2)"
	}

	_, err = DB.ExecContext(ctx, query, next, today.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to record completion: %v", err)
	}
	return nil
}

// CurrentStreak returns the streak counter and the last completion
// date. A missing row means no session was ever completed.
func (r *ProgressRepository) CurrentStreak(ctx context.Context) (models.Streak, error) {
	var (
		current int
		last    sql.NullString
	)
	err := DB.QueryRowContext(ctx,
		"SELECT current_streak, last_completed FROM streak WHERE id = 1").Scan(&current, &last)
	if err == sql.ErrNoRows {
		return models.Streak{}, nil
	}
	if err != nil {
		return models.Streak{}, fmt.Errorf("failed to get streak: %v", err)
	}

	streak := models.Streak{Current: current}
	if last.Valid && last.String != "" {
		t, err := time.Parse(dateLayout, last.String)
		if err != nil {
			return models.Streak{}, fmt.Errorf("failed to parse last completion date %q: %v", last.String, err)
		}
		streak.LastCompleted = t
	}
	return streak, nil
}
