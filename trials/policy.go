package trials

import (
	"os"
	"strconv"
	"time"
)

// Policy holds the configurable trial rules. The re-trial spacing window and
// the monthly allotment are deployment choices, not constants.
type Policy struct {
	MonthlyTrials  int
	RetrialSpacing time.Duration
}

const (
	defaultMonthlyTrials  = 3
	defaultSpacingDays    = 30
	envMonthlyTrials      = "TRIAL_MONTHLY_LIMIT"
	envRetrialSpacingDays = "TRIAL_RETRY_SPACING_DAYS"
)

func DefaultPolicy() Policy {
	return Policy{
		MonthlyTrials:  defaultMonthlyTrials,
		RetrialSpacing: defaultSpacingDays * 24 * time.Hour,
	}
}

// PolicyFromEnv reads overrides from the environment, falling back to defaults.
func PolicyFromEnv() Policy {
	pol := DefaultPolicy()
	if v := os.Getenv(envMonthlyTrials); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pol.MonthlyTrials = n
		}
	}
	if v := os.Getenv(envRetrialSpacingDays); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pol.RetrialSpacing = time.Duration(n) * 24 * time.Hour
		}
	}
	return pol
}
