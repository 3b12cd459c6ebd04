package models

import "time"

// Payment methods and statuses.
const (
	PayOnline = "online"
	PayCash   = "cash"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Payment struct {
	PaymentID string    `json:"paymentId" bson:"paymentid"`
	GymID     string    `json:"gymId" bson:"gymid"`
	MemberID  string    `json:"memberId" bson:"memberid"`
	Amount    float64   `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Method    string    `json:"method" bson:"method"`
	Status    string    `json:"status" bson:"status"`
	Plan      string    `json:"plan,omitempty" bson:"plan,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
	PaidAt    time.Time `json:"paidAt,omitempty" bson:"paidat,omitempty"`
}

// CashCode is a one-time validation code for cash payments. Persisted with an
// explicit expiry checked on read; a periodic sweep removes stale codes.
type CashCode struct {
	Code      string    `json:"code" bson:"code"`
	PaymentID string    `json:"paymentId" bson:"paymentid"`
	GymID     string    `json:"gymId" bson:"gymid"`
	Used      bool      `json:"used" bson:"used"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresat"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
}

type Notification struct {
	NotificationID string    `json:"notificationId" bson:"notificationid"`
	Title          string    `json:"title" bson:"title"`
	Body           string    `json:"body" bson:"body"`
	Recipient      string    `json:"recipient" bson:"recipient"` // email or "gym:<id>" selector
	Event          string    `json:"event" bson:"event"`
	Sent           bool      `json:"sent" bson:"sent"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdat"`
}
