package models

import "time"

// Attendance statuses as stored. Derived calendar classes live in the
// attendance package.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

const (
	PersonMember  = "member"
	PersonTrainer = "trainer"
)

// AttendanceRecord is unique per (gymid, personid, date); writes are upserts.
type AttendanceRecord struct {
	GymID        string    `json:"gymId" bson:"gymid"`
	PersonID     string    `json:"personId" bson:"personid"`
	PersonType   string    `json:"personType" bson:"persontype"`
	Date         string    `json:"date" bson:"date"` // YYYY-MM-DD
	Status       string    `json:"status" bson:"status"`
	CheckInTime  time.Time `json:"checkInTime,omitempty" bson:"checkintime,omitempty"`
	CheckOutTime time.Time `json:"checkOutTime,omitempty" bson:"checkouttime,omitempty"`
	MarkedBy     string    `json:"markedBy,omitempty" bson:"markedby,omitempty"`
}
