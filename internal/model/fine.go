package model

import (
	"math"
	"time"
)

// DaysOverdue counts whole days between due and now, rounding any
// partial day up. A return a few minutes past due already counts as
// one full day.
func DaysOverdue(now, due time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(math.Ceil(now.Sub(due).Hours() / 24))
}

// Fine computes the monetary penalty for a return at now, given the
// record's due date and the configured per-day rate.
func Fine(now, due time.Time, perDay float64) float64 {
	return float64(DaysOverdue(now, due)) * perDay
}
