package models

import "time"

// Session types accepted on a trial booking form.
const (
	SessionTrial      = "trial"
	SessionPersonal   = "personal"
	SessionGroup      = "group"
	SessionAssessment = "assessment"
)

// Booking statuses.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingNoShow    = "no-show"
)

type TrialBooking struct {
	BookingID     string    `json:"bookingId" bson:"bookingid"`
	Name          string    `json:"name" bson:"name"`
	Email         string    `json:"email" bson:"email"`
	Phone         string    `json:"phone" bson:"phone"`
	GymID         string    `json:"gymId" bson:"gymid"`
	SessionType   string    `json:"sessionType" bson:"sessiontype"`
	PreferredDate string    `json:"preferredDate" bson:"preferreddate"` // YYYY-MM-DD
	PreferredTime string    `json:"preferredTime" bson:"preferredtime"`
	Status        string    `json:"status" bson:"status"`
	UserID        string    `json:"userId,omitempty" bson:"userid,omitempty"` // empty for anonymous bookings
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedat"`
}
