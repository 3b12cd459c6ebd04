package trials

import (
	"testing"

	"fitpass/models"
)

func TestResetIfStaleInitializes(t *testing.T) {
	rec, changed := ResetIfStale(models.TrialUsage{}, day("2024-06-08"), testPolicy())
	if !changed {
		t.Fatal("expected initialization to report a change")
	}
	if rec.Total != 3 || rec.Used != 0 || rec.Remaining != 3 {
		t.Fatalf("unexpected counters after init: %+v", rec)
	}
}

func TestResetIfStaleSameCycleNoop(t *testing.T) {
	in := models.TrialUsage{Total: 3, Used: 2, Remaining: 1, LastResetDate: day("2024-06-01")}
	rec, changed := ResetIfStale(in, day("2024-06-28"), testPolicy())
	if changed {
		t.Fatal("same month must not reset")
	}
	if rec.Used != 2 || rec.Remaining != 1 || rec.Total != 3 {
		t.Fatalf("record mutated: %+v", rec)
	}
}

func TestResetIfStaleRollsOver(t *testing.T) {
	in := models.TrialUsage{
		Total: 5, Used: 5, Remaining: 0,
		LastResetDate: day("2024-05-20"),
		History: []models.TrialHistoryEntry{
			{BookingID: "b1", GymID: "G1", Status: models.TrialCompleted},
		},
	}
	rec, changed := ResetIfStale(in, day("2024-06-02"), testPolicy())
	if !changed {
		t.Fatal("new month must reset")
	}
	if rec.Used != 0 || rec.Remaining != 5 || rec.Total != 5 {
		t.Fatalf("unexpected counters after rollover: %+v", rec)
	}
	if len(rec.History) != 1 {
		t.Fatal("history must survive a reset")
	}
	if rec.Used+rec.Remaining != rec.Total {
		t.Fatal("counter invariant broken")
	}
}

func TestSameCycleYearBoundary(t *testing.T) {
	if SameCycle(day("2023-12-31"), day("2024-01-01")) {
		t.Fatal("December and January are different cycles")
	}
	if !SameCycle(day("2024-06-01"), day("2024-06-30")) {
		t.Fatal("same month must be the same cycle")
	}
}

func TestNextReset(t *testing.T) {
	got := NextReset(day("2024-06-08")).Format("2006-01-02")
	if got != "2024-07-01" {
		t.Fatalf("next reset = %s, want 2024-07-01", got)
	}
	got = NextReset(day("2024-12-15")).Format("2006-01-02")
	if got != "2025-01-01" {
		t.Fatalf("next reset = %s, want 2025-01-01", got)
	}
}
