package models

import "time"

// Streak represents the learner's run of consecutive calendar days
// with at least one completed session
type Streak struct {
	Current       int       `json:"current" db:"current_streak"`
	LastCompleted time.Time `json:"last_completed" db:"last_completed"`
}
