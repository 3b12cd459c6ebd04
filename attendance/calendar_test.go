package attendance

import (
	"testing"
	"time"

	"fitpass/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func classOf(view MonthView, date string) DayClass {
	for _, d := range view.Days {
		if d.Date == date {
			return d.Class
		}
	}
	return ""
}

func TestGridStart(t *testing.T) {
	// June 1 2024 is a Saturday; the grid opens on Sunday May 26.
	got := GridStart(2024, time.June).Format("2006-01-02")
	if got != "2024-05-26" {
		t.Fatalf("grid start = %s, want 2024-05-26", got)
	}
	// September 1 2024 is itself a Sunday.
	got = GridStart(2024, time.September).Format("2006-01-02")
	if got != "2024-09-01" {
		t.Fatalf("grid start = %s, want 2024-09-01", got)
	}
}

// The spec's walk-through: membership 2024-06-05..2024-06-20, today after the
// window closes.
func TestBuildMonthMembershipWindow(t *testing.T) {
	join := day("2024-06-05")
	until := day("2024-06-20")
	today := day("2024-06-25")

	recs := []models.AttendanceRecord{
		{GymID: "G1", PersonID: "M1", Date: "2024-06-05", Status: models.AttendancePresent},
		{GymID: "G1", PersonID: "M1", Date: "2024-06-06", Status: models.AttendanceAbsent},
	}

	view := BuildMonth(2024, time.June, today, &join, &until, recs)

	if len(view.Days) != 42 {
		t.Fatalf("grid has %d cells, want 42", len(view.Days))
	}

	// Before the join date, Sunday June 2 included.
	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04"} {
		if got := classOf(view, d); got != DayOutsideMembership {
			t.Fatalf("%s = %s, want outside-membership", d, got)
		}
	}
	// After validUntil.
	for _, d := range []string{"2024-06-21", "2024-06-25", "2024-06-30"} {
		if got := classOf(view, d); got != DayOutsideMembership {
			t.Fatalf("%s = %s, want outside-membership", d, got)
		}
	}
	// Sundays inside the window.
	for _, d := range []string{"2024-06-09", "2024-06-16"} {
		if got := classOf(view, d); got != DayWeekend {
			t.Fatalf("%s = %s, want weekend", d, got)
		}
	}
	// Stored records.
	if got := classOf(view, "2024-06-05"); got != DayPresent {
		t.Fatalf("2024-06-05 = %s, want present", got)
	}
	if got := classOf(view, "2024-06-06"); got != DayAbsent {
		t.Fatalf("2024-06-06 = %s, want absent", got)
	}
	// Unmarked past weekdays inside the window.
	for _, d := range []string{"2024-06-07", "2024-06-10", "2024-06-20"} {
		if got := classOf(view, d); got != DayNotMarked {
			t.Fatalf("%s = %s, want not-marked", d, got)
		}
	}
	// Cells outside June.
	if got := classOf(view, "2024-05-26"); got != DayOutsideMonth {
		t.Fatalf("2024-05-26 = %s, want outside-month", got)
	}
	if got := classOf(view, "2024-07-06"); got != DayOutsideMonth {
		t.Fatalf("2024-07-06 = %s, want outside-month", got)
	}

	// 16 calendar days June 5-20 minus two Sundays = 14 working days.
	st := view.Stats
	if st.TotalWorkingDays != 14 {
		t.Fatalf("working days = %d, want 14", st.TotalWorkingDays)
	}
	if st.PresentCount != 1 || st.AbsentCount != 1 {
		t.Fatalf("present/absent = %d/%d, want 1/1", st.PresentCount, st.AbsentCount)
	}
	if st.NotMarkedCount != 12 {
		t.Fatalf("not-marked = %d, want 12", st.NotMarkedCount)
	}
	want := 1.0 / 14.0
	if st.AttendanceRate < want-1e-9 || st.AttendanceRate > want+1e-9 {
		t.Fatalf("rate = %f, want %f", st.AttendanceRate, want)
	}
}

func TestBuildMonthUnboundedWindow(t *testing.T) {
	today := day("2024-06-15")
	view := BuildMonth(2024, time.June, today, nil, nil, nil)

	for _, d := range view.Days {
		if d.Class == DayOutsideMembership {
			t.Fatalf("%s flagged outside-membership with no window", d.Date)
		}
	}
	if got := classOf(view, "2024-06-03"); got != DayNotMarked {
		t.Fatalf("2024-06-03 = %s, want not-marked", got)
	}
	if got := classOf(view, "2024-06-17"); got != DayFuture {
		t.Fatalf("2024-06-17 = %s, want future", got)
	}
	if got := classOf(view, "2024-06-23"); got != DayWeekend {
		t.Fatalf("future Sunday 2024-06-23 = %s, want weekend", got)
	}
}

func TestBuildMonthRateZeroWhenNoWorkingDays(t *testing.T) {
	// Membership starts after the month ends.
	join := day("2024-07-10")
	view := BuildMonth(2024, time.June, day("2024-06-30"), &join, nil, nil)
	if view.Stats.TotalWorkingDays != 0 {
		t.Fatalf("working days = %d, want 0", view.Stats.TotalWorkingDays)
	}
	if view.Stats.AttendanceRate != 0 {
		t.Fatalf("rate = %f, want 0", view.Stats.AttendanceRate)
	}
}

func TestBuildMonthTodayIsNotFuture(t *testing.T) {
	today := day("2024-06-12") // a Wednesday
	view := BuildMonth(2024, time.June, today, nil, nil, nil)
	if got := classOf(view, "2024-06-12"); got != DayNotMarked {
		t.Fatalf("today with no record = %s, want not-marked", got)
	}
	if got := classOf(view, "2024-06-13"); got != DayFuture {
		t.Fatalf("tomorrow = %s, want future", got)
	}
}
