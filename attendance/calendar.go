package attendance

import (
	"time"

	"fitpass/models"
)

// DayClass is the derived per-day status shown on the month grid.
type DayClass string

const (
	DayPresent           DayClass = "present"
	DayAbsent            DayClass = "absent"
	DayNotMarked         DayClass = "not-marked"
	DayWeekend           DayClass = "weekend"
	DayOutsideMembership DayClass = "outside-membership"
	DayFuture            DayClass = "future"
	DayOutsideMonth      DayClass = "outside-month"
)

type Day struct {
	Date  string   `json:"date"`
	Class DayClass `json:"class"`
}

type Stats struct {
	PresentCount     int     `json:"presentCount"`
	AbsentCount      int     `json:"absentCount"`
	NotMarkedCount   int     `json:"notMarkedCount"`
	TotalWorkingDays int     `json:"totalWorkingDays"`
	AttendanceRate   float64 `json:"attendanceRate"`
}

type MonthView struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  []Day  `json:"days"`
	Stats Stats  `json:"stats"`
}

const gridCells = 42

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GridStart returns the Sunday on or before the 1st of the month, the first
// cell of the 42-cell grid.
func GridStart(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 0, -int(first.Weekday()))
}

// BuildMonth reconciles sparse attendance records into a full month grid
// bounded by the membership validity window. Nil join/validUntil means the
// window is unbounded on that side. Pure: no store access, no clock access.
func BuildMonth(year int, month time.Month, today time.Time, join, validUntil *time.Time, recs []models.AttendanceRecord) MonthView {
	byDate := make(map[string]string, len(recs))
	for _, rec := range recs {
		byDate[rec.Date] = rec.Status
	}

	todayD := dateOnly(today)
	var joinD, untilD time.Time
	if join != nil {
		joinD = dateOnly(*join)
	}
	if validUntil != nil {
		untilD = dateOnly(*validUntil)
	}

	start := GridStart(year, month)
	view := MonthView{Year: year, Month: int(month), Days: make([]Day, 0, gridCells)}

	for i := 0; i < gridCells; i++ {
		d := start.AddDate(0, 0, i)
		ds := d.Format("2006-01-02")
		view.Days = append(view.Days, Day{Date: ds, Class: classify(d, year, month, todayD, joinD, untilD, byDate)})
	}

	view.Stats = buildStats(view.Days, year, month, todayD, joinD, untilD)
	return view
}

func classify(d time.Time, year int, month time.Month, today, join, until time.Time, byDate map[string]string) DayClass {
	if d.Year() != year || d.Month() != month {
		return DayOutsideMonth
	}
	// Membership bounds win over everything else inside the month, records
	// included: a stray record outside the window is not shown.
	if !join.IsZero() && d.Before(join) {
		return DayOutsideMembership
	}
	if !until.IsZero() && d.After(until) {
		return DayOutsideMembership
	}
	switch byDate[d.Format("2006-01-02")] {
	case models.AttendancePresent:
		return DayPresent
	case models.AttendanceAbsent:
		return DayAbsent
	}
	// Sunday is the non-working day: never not-marked, record or not.
	if d.Weekday() == time.Sunday {
		return DayWeekend
	}
	if d.After(today) {
		return DayFuture
	}
	return DayNotMarked
}

func buildStats(days []Day, year int, month time.Month, today, join, until time.Time) Stats {
	var st Stats
	for _, day := range days {
		switch day.Class {
		case DayPresent:
			st.PresentCount++
		case DayAbsent:
			st.AbsentCount++
		case DayNotMarked:
			st.NotMarkedCount++
		}
	}

	// Working days: weekdays inside the membership window, not in the future.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			continue
		}
		if !join.IsZero() && d.Before(join) {
			continue
		}
		if !until.IsZero() && d.After(until) {
			continue
		}
		if d.After(today) {
			continue
		}
		st.TotalWorkingDays++
	}

	if st.TotalWorkingDays > 0 {
		st.AttendanceRate = float64(st.PresentCount) / float64(st.TotalWorkingDays)
	}
	return st
}
