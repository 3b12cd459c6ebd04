package models

import "time"

// Gym registration statuses.
const (
	GymPending  = "pending"
	GymApproved = "approved"
	GymRejected = "rejected"
)

type Gym struct {
	GymID      string    `json:"gymId" bson:"gymid"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Phone      string    `json:"phone" bson:"phone"`
	Address    string    `json:"address,omitempty" bson:"address,omitempty"`
	City       string    `json:"city,omitempty" bson:"city,omitempty"`
	OwnerID    string    `json:"ownerId" bson:"ownerid"`
	Status     string    `json:"status" bson:"status"`
	Logo       string    `json:"logo,omitempty" bson:"logo,omitempty"`
	LogoThumb  string    `json:"logoThumb,omitempty" bson:"logothumb,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdat"`
	ApprovedAt time.Time `json:"approvedAt,omitempty" bson:"approvedat,omitempty"`
}

type Member struct {
	MemberID   string    `json:"memberId" bson:"memberid"`
	GymID      string    `json:"gymId" bson:"gymid"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Phone      string    `json:"phone" bson:"phone"`
	Plan       string    `json:"plan,omitempty" bson:"plan,omitempty"`
	JoinDate   time.Time `json:"joinDate" bson:"joindate"`
	ValidUntil time.Time `json:"validUntil,omitempty" bson:"validuntil,omitempty"`
	Active     bool      `json:"active" bson:"active"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedat"`
}

type Trainer struct {
	TrainerID string    `json:"trainerId" bson:"trainerid"`
	GymID     string    `json:"gymId" bson:"gymid"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Specialty string    `json:"specialty,omitempty" bson:"specialty,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"createdAt" bson:"createdat"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedat"`
}
