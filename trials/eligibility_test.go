package trials

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

func testPolicy() Policy {
	return Policy{MonthlyTrials: 3, RetrialSpacing: 30 * 24 * time.Hour}
}

func TestEvaluateAllowsWithRemainingQuota(t *testing.T) {
	rec := models.TrialUsage{Total: 3, Used: 2, Remaining: 1, LastResetDate: day("2024-06-01")}

	dec := Evaluate(rec, "G1", day("2024-06-10"), day("2024-06-08"), testPolicy())
	if !dec.CanBook {
		t.Fatalf("expected booking allowed, got denied: %s", dec.Message)
	}
}

func TestEvaluateDeniesWhenQuotaExhausted(t *testing.T) {
	rec := models.TrialUsage{Total: 3, Used: 3, Remaining: 0, LastResetDate: day("2024-06-01")}

	dec := Evaluate(rec, "G1", day("2024-06-10"), day("2024-06-08"), testPolicy())
	if dec.CanBook {
		t.Fatal("expected denial when remaining == 0")
	}
	if dec.Restrictions["remainingTrials"] != 0 {
		t.Fatalf("expected remainingTrials restriction 0, got %v", dec.Restrictions["remainingTrials"])
	}
	if dec.Restrictions["nextReset"] != "2024-07-01" {
		t.Fatalf("expected next reset 2024-07-01, got %v", dec.Restrictions["nextReset"])
	}
}

func TestEvaluateSpacingWindow(t *testing.T) {
	pol := testPolicy()

	cases := []struct {
		name      string
		entry     models.TrialHistoryEntry
		requested string
		want      bool
	}{
		{
			name:      "recent completed trial at same gym blocks",
			entry:     models.TrialHistoryEntry{GymID: "G1", TrialDate: day("2024-06-01"), Status: models.TrialCompleted},
			requested: "2024-06-10",
			want:      false,
		},
		{
			name:      "old trial at same gym allows",
			entry:     models.TrialHistoryEntry{GymID: "G1", TrialDate: day("2024-04-01"), Status: models.TrialCompleted},
			requested: "2024-06-10",
			want:      true,
		},
		{
			name:      "scheduled future trial at same gym blocks",
			entry:     models.TrialHistoryEntry{GymID: "G1", TrialDate: day("2024-06-15"), Status: models.TrialScheduled},
			requested: "2024-06-10",
			want:      false,
		},
		{
			name:      "cancelled trial does not block",
			entry:     models.TrialHistoryEntry{GymID: "G1", TrialDate: day("2024-06-01"), Status: models.TrialCancelled},
			requested: "2024-06-10",
			want:      true,
		},
		{
			name:      "recent trial at a different gym does not block",
			entry:     models.TrialHistoryEntry{GymID: "G2", TrialDate: day("2024-06-01"), Status: models.TrialCompleted},
			requested: "2024-06-10",
			want:      true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := models.TrialUsage{
				Total: 3, Used: 1, Remaining: 2,
				LastResetDate: day("2024-06-01"),
				History:       []models.TrialHistoryEntry{tc.entry},
			}
			dec := Evaluate(rec, "G1", day(tc.requested), day("2024-06-08"), pol)
			if dec.CanBook != tc.want {
				t.Fatalf("canBook = %v, want %v (%s)", dec.CanBook, tc.want, dec.Message)
			}
		})
	}
}

// Walks the spec's example: 2 of 3 used, booking at G1 succeeds, then a third
// request is denied with the limit message.
func TestEvaluateExampleScenario(t *testing.T) {
	pol := testPolicy()
	now := day("2024-06-08")

	rec := models.TrialUsage{Total: 3, Used: 2, Remaining: 1, LastResetDate: day("2024-06-01")}
	dec := Evaluate(rec, "G1", day("2024-06-10"), now, pol)
	if !dec.CanBook {
		t.Fatalf("first request should be allowed: %s", dec.Message)
	}

	// the ledger's effect
	rec.Used, rec.Remaining = 3, 0
	rec.History = append(rec.History, models.TrialHistoryEntry{
		BookingID: "b1", GymID: "G1", TrialDate: day("2024-06-10"), Status: models.TrialScheduled,
	})
	if rec.Used+rec.Remaining != rec.Total {
		t.Fatal("counter invariant broken")
	}

	dec = Evaluate(rec, "G2", day("2024-06-12"), now, pol)
	if dec.CanBook {
		t.Fatal("second request should hit the monthly limit")
	}
}
