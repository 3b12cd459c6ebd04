package models

import "time"

type User struct {
	UserID        string     `json:"userid" bson:"userid"`
	Username      string     `json:"username" bson:"username"`
	Email         string     `json:"email" bson:"email"`
	Password      string     `json:"-" bson:"password"`
	Role          []string   `json:"role" bson:"role"`
	Name          string     `json:"name,omitempty" bson:"name,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
	LastLogin     time.Time  `json:"last_login" bson:"last_login"`
	RefreshToken  string     `json:"-" bson:"refreshtoken,omitempty"`
	RefreshExpiry time.Time  `json:"refreshexp" bson:"refreshexp"`
	Trials        TrialUsage `json:"trials" bson:"trials"`
}

// TrialUsage tracks the free-trial quota for the current monthly cycle.
// Invariant after every mutation: Used + Remaining == Total, both non-negative.
type TrialUsage struct {
	Total         int                 `json:"totalTrials" bson:"total"`
	Used          int                 `json:"usedTrials" bson:"used"`
	Remaining     int                 `json:"remainingTrials" bson:"remaining"`
	LastResetDate time.Time           `json:"lastResetDate" bson:"lastresetdate"`
	History       []TrialHistoryEntry `json:"history" bson:"history"`
}

// Trial history entry statuses.
const (
	TrialScheduled = "scheduled"
	TrialCompleted = "completed"
	TrialCancelled = "cancelled"
)

type TrialHistoryEntry struct {
	BookingID   string    `json:"bookingId" bson:"bookingid"`
	GymID       string    `json:"gymId" bson:"gymid"`
	GymName     string    `json:"gymName" bson:"gymname"`
	BookingDate time.Time `json:"bookingDate" bson:"bookingdate"`
	TrialDate   time.Time `json:"trialDate" bson:"trialdate"`
	Status      string    `json:"status" bson:"status"` // scheduled, completed, cancelled
}
