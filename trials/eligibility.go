package trials

import (
	"fmt"
	"time"

	"fitpass/models"
)

// Decision is the result of a read-only eligibility evaluation. It carries no
// side effects; the ledger re-checks the quota atomically on write.
type Decision struct {
	CanBook      bool           `json:"canBook"`
	Message      string         `json:"message"`
	Restrictions map[string]any `json:"restrictions,omitempty"`
}

// Evaluate decides whether a user with the given usage record may book a
// trial at gymID on the requested date. Callers must run the record through
// ResetIfStale first so a stale cycle never denies a fresh quota.
func Evaluate(rec models.TrialUsage, gymID string, requested, now time.Time, pol Policy) Decision {
	if rec.Remaining <= 0 {
		return Decision{
			CanBook: false,
			Message: fmt.Sprintf("Monthly trial limit reached (%d of %d used). Quota resets on %s.",
				rec.Used, rec.Total, NextReset(now).Format("2006-01-02")),
			Restrictions: map[string]any{
				"remainingTrials": 0,
				"nextReset":       NextReset(now).Format("2006-01-02"),
			},
		}
	}

	for _, entry := range rec.History {
		if entry.GymID != gymID {
			continue
		}
		if entry.Status != models.TrialCompleted && entry.Status != models.TrialScheduled {
			continue
		}
		// A prior trial at this gym inside the spacing window blocks a new
		// one. A scheduled trial in the future blocks regardless.
		gap := requested.Sub(entry.TrialDate)
		if gap < pol.RetrialSpacing {
			return Decision{
				CanBook: false,
				Message: fmt.Sprintf("You already used a trial at this gym recently. Trials at the same gym must be at least %d days apart.",
					int(pol.RetrialSpacing.Hours()/24)),
				Restrictions: map[string]any{
					"gymId":         gymID,
					"lastTrialDate": entry.TrialDate.Format("2006-01-02"),
					"spacingDays":   int(pol.RetrialSpacing.Hours() / 24),
				},
			}
		}
	}

	return Decision{
		CanBook: true,
		Message: fmt.Sprintf("You can book this trial. %d of %d trials remaining this month.", rec.Remaining, rec.Total),
	}
}
