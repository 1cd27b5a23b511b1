// Package finance contains the pure calculators behind budgets, goals and
// investments: status derivation, summary aggregation, revaluation and goal
// allocation. Functions here never touch the database or the system clock;
// callers pass snapshots of their data and an explicit period or reference
// time, which keeps every computation deterministic under test.
package finance

import "time"

// Period is a half-open-ended date range [Start, End] used to filter
// expenses. Both bounds are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod returns the period covering the given calendar month in loc.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Period{Start: start, End: end}
}

// CurrentMonth returns the period for the calendar month containing now.
func CurrentMonth(now time.Time) Period {
	return MonthPeriod(now.Year(), now.Month(), now.Location())
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}
