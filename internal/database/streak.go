package database

import "time"

// nextStreak computes the streak value after completing a session on
// today's date. It returns the new counter and whether the stored
// state needs updating: a second completion on the same calendar day
// changes nothing.
func nextStreak(current int, last, today time.Time) (int, bool) {
	if last.IsZero() {
		return 1, true
	}
	if sameDate(last, today) {
		return current, false
	}
	if sameDate(last.AddDate(0, 0, 1), today) {
		// Consecutive calendar day: extend the run
		return current + 1, true
	}
	// Missed at least one day: the run starts over
	return 1, true
}

// sameDate compares two times by calendar date only
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
