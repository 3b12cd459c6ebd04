package trials

import (
	"time"

	"fitpass/models"
)

// SameCycle reports whether two instants fall in the same monthly trial cycle.
func SameCycle(a, b time.Time) bool {
	ay, am, _ := a.UTC().Date()
	by, bm, _ := b.UTC().Date()
	return ay == by && am == bm
}

// NextReset returns the start of the cycle following now.
func NextReset(now time.Time) time.Time {
	y, m, _ := now.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// ResetIfStale applies the lazy monthly reset. There is no background job:
// every access path runs the usage record through here first. Returns the
// (possibly updated) record and whether it changed. History is retained
// across resets.
func ResetIfStale(rec models.TrialUsage, now time.Time, pol Policy) (models.TrialUsage, bool) {
	if rec.Total == 0 && rec.LastResetDate.IsZero() {
		// never initialized
		rec.Total = pol.MonthlyTrials
		rec.Used = 0
		rec.Remaining = rec.Total
		rec.LastResetDate = now
		return rec, true
	}
	if SameCycle(rec.LastResetDate, now) {
		return rec, false
	}
	rec.Used = 0
	rec.Remaining = rec.Total
	rec.LastResetDate = now
	return rec, true
}
