package attendance

import (
	"testing"
	"time"

	"fitpass/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMarkUpdatePresentSetsCheckIn(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	p := markPayload{
		GymID: "g1", PersonID: "m1", PersonType: models.PersonMember,
		Date: "2024-06-03", Status: models.AttendancePresent,
	}

	update := markUpdate(p, "op1", now)

	set := update["$set"].(bson.M)
	if set["status"] != models.AttendancePresent {
		t.Fatalf("status = %v", set["status"])
	}
	if got := set["checkintime"].(time.Time); !got.Equal(now) {
		t.Fatalf("checkintime = %v, want %v", got, now)
	}
	if _, ok := update["$unset"]; ok {
		t.Fatal("present mark must not unset anything")
	}
}

func TestMarkUpdatePresentHonorsExplicitTimes(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	p := markPayload{
		GymID: "g1", PersonID: "m1", PersonType: models.PersonMember,
		Date: "2024-06-03", Status: models.AttendancePresent,
		CheckIn:  "2024-06-03T08:15:00Z",
		CheckOut: "2024-06-03T10:45:00Z",
	}

	set := markUpdate(p, "op1", now)["$set"].(bson.M)
	if got := set["checkintime"].(time.Time); got.Hour() != 8 || got.Minute() != 15 {
		t.Fatalf("checkintime = %v", got)
	}
	if got := set["checkouttime"].(time.Time); got.Hour() != 10 || got.Minute() != 45 {
		t.Fatalf("checkouttime = %v", got)
	}
}

// Re-marking a present day as absent must clear the stale check-in/out,
// not leave them dangling on an absent record.
func TestMarkUpdateAbsentClearsCheckTimes(t *testing.T) {
	p := markPayload{
		GymID: "g1", PersonID: "m1", PersonType: models.PersonMember,
		Date: "2024-06-03", Status: models.AttendanceAbsent,
	}

	update := markUpdate(p, "op1", time.Now().UTC())

	set := update["$set"].(bson.M)
	if set["status"] != models.AttendanceAbsent {
		t.Fatalf("status = %v", set["status"])
	}
	if _, ok := set["checkintime"]; ok {
		t.Fatal("absent mark must not set a check-in time")
	}

	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatal("absent mark must unset check times")
	}
	if _, ok := unset["checkintime"]; !ok {
		t.Fatal("checkintime must be unset on absent")
	}
	if _, ok := unset["checkouttime"]; !ok {
		t.Fatal("checkouttime must be unset on absent")
	}
}
