package trials

import (
	"testing"
	"time"

	"fitpass/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBookFilterGuardsQuotaAndReplay(t *testing.T) {
	f := bookFilter("u1", "bk-1")

	if f["userid"] != "u1" {
		t.Fatalf("userid = %v", f["userid"])
	}
	rem := f["trials.remaining"].(bson.M)
	if rem["$gt"] != 0 {
		t.Fatalf("remaining guard = %v, want $gt 0", rem)
	}
	dup := f["trials.history.bookingid"].(bson.M)
	if dup["$ne"] != "bk-1" {
		t.Fatalf("replay guard = %v, want $ne bk-1", dup)
	}
}

// The increments must be symmetric so used + remaining == total is
// preserved by every booking.
func TestBookUpdateMovesOneTrialAndAppendsHistory(t *testing.T) {
	entry := models.TrialHistoryEntry{
		BookingID: "bk-1",
		GymID:     "g1",
		TrialDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.TrialScheduled,
	}
	u := bookUpdate(entry)

	inc := u["$inc"].(bson.M)
	if inc["trials.used"] != 1 || inc["trials.remaining"] != -1 {
		t.Fatalf("$inc = %v, want used +1 / remaining -1", inc)
	}
	push := u["$push"].(bson.M)
	if push["trials.history"].(models.TrialHistoryEntry).BookingID != "bk-1" {
		t.Fatalf("$push = %v", push)
	}
}

func TestHistoryHasDetectsReplay(t *testing.T) {
	rec := models.TrialUsage{History: []models.TrialHistoryEntry{
		{BookingID: "bk-1", Status: models.TrialScheduled},
		{BookingID: "bk-2", Status: models.TrialCancelled},
	}}

	if !historyHas(rec, "bk-1") {
		t.Fatal("bk-1 is in the ledger")
	}
	if !historyHas(rec, "bk-2") {
		t.Fatal("cancelled entries still count as recorded")
	}
	if historyHas(rec, "bk-3") {
		t.Fatal("bk-3 never hit the ledger")
	}
}

func TestCancelFilterRequiresScheduledEntryAndUsedTrial(t *testing.T) {
	f := cancelFilter("u1", "bk-1")

	used := f["trials.used"].(bson.M)
	if used["$gt"] != 0 {
		t.Fatalf("used guard = %v, want $gt 0 so the counter never goes negative", used)
	}
	elem := f["trials.history"].(bson.M)["$elemMatch"].(bson.M)
	if elem["bookingid"] != "bk-1" {
		t.Fatalf("elemMatch bookingid = %v", elem["bookingid"])
	}
	if elem["status"] != models.TrialScheduled {
		t.Fatalf("elemMatch status = %v, want scheduled only", elem["status"])
	}
}

func TestCancelUpdateRefundsOneTrialAndMarksInPlace(t *testing.T) {
	u := cancelUpdate()

	inc := u["$inc"].(bson.M)
	if inc["trials.used"] != -1 || inc["trials.remaining"] != 1 {
		t.Fatalf("$inc = %v, want used -1 / remaining +1", inc)
	}
	set := u["$set"].(bson.M)
	if set["trials.history.$[e].status"] != models.TrialCancelled {
		t.Fatalf("$set = %v, want the entry marked cancelled", set)
	}
	if _, ok := u["$pull"]; ok {
		t.Fatal("cancellation must never remove history entries")
	}
}
