package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fitpass/db"
	"fitpass/globals"
	"fitpass/models"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type markPayload struct {
	GymID      string `json:"gymId"`
	PersonID   string `json:"personId"`
	PersonType string `json:"personType"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     string `json:"status"`
	CheckIn    string `json:"checkInTime,omitempty"`  // RFC3339, optional
	CheckOut   string `json:"checkOutTime,omitempty"` // RFC3339, optional
}

// markUpdate builds the upsert document for one attendance mark. An absent
// mark clears any check-in/out times left behind by an earlier present mark
// on the same record.
func markUpdate(p markPayload, markedBy string, now time.Time) bson.M {
	set := bson.M{
		"persontype": p.PersonType,
		"status":     p.Status,
		"markedby":   markedBy,
	}
	if p.Status != models.AttendancePresent {
		return bson.M{
			"$set":   set,
			"$unset": bson.M{"checkintime": "", "checkouttime": ""},
		}
	}

	checkIn := now
	if p.CheckIn != "" {
		if t, err := time.Parse(time.RFC3339, p.CheckIn); err == nil {
			checkIn = t
		}
	}
	set["checkintime"] = checkIn
	if p.CheckOut != "" {
		if t, err := time.Parse(time.RFC3339, p.CheckOut); err == nil {
			set["checkouttime"] = t
		}
	}
	return bson.M{"$set": set}
}

// Mark upserts the attendance record for (gym, person, date). One record per
// person per day; marking twice overwrites the status.
func Mark(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p markPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}

	missing := utils.MissingFields(map[string]string{
		"gymId": p.GymID, "personId": p.PersonID, "personType": p.PersonType,
		"date": p.Date, "status": p.Status,
	})
	if len(missing) > 0 {
		utils.SendResponse(w, http.StatusBadRequest, utils.M{"missing": missing}, "Missing required fields", nil)
		return
	}
	if p.PersonType != models.PersonMember && p.PersonType != models.PersonTrainer {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid person type", nil)
		return
	}
	if p.Status != models.AttendancePresent && p.Status != models.AttendanceAbsent {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid status", nil)
		return
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	markedBy, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.AttendanceCollection.UpdateOne(ctx,
		bson.M{"gymid": p.GymID, "personid": p.PersonID, "date": p.Date},
		markUpdate(p, markedBy, time.Now().UTC()),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not mark attendance", nil)
		return
	}

	var rec models.AttendanceRecord
	if err := db.AttendanceCollection.FindOne(ctx,
		bson.M{"gymid": p.GymID, "personid": p.PersonID, "date": p.Date}).Decode(&rec); err == nil {
		if data, err := json.Marshal(rec); err == nil {
			liveFeed.publish(p.GymID, data)
		}
	}

	utils.SendResponse(w, http.StatusOK, rec, "Attendance marked", nil)
}

// Calendar returns the reconciled month view for one person.
// Query: gymId, personId, personType (default member), month=YYYY-MM.
func Calendar(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	gymID := q.Get("gymId")
	personID := q.Get("personId")
	if gymID == "" || personID == "" {
		utils.SendResponse(w, http.StatusBadRequest, nil, "gymId and personId are required", nil)
		return
	}
	personType := q.Get("personType")
	if personType == "" {
		personType = models.PersonMember
	}

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if m := q.Get("month"); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid month, expected YYYY-MM", nil)
			return
		}
		year, month = t.Year(), t.Month()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Membership window bounds the grid for members; trainers and unknown
	// members get an unbounded window.
	var join, validUntil *time.Time
	if personType == models.PersonMember {
		var member models.Member
		if err := db.MembersCollection.FindOne(ctx,
			bson.M{"gymid": gymID, "memberid": personID}).Decode(&member); err == nil {
			if !member.JoinDate.IsZero() {
				join = &member.JoinDate
			}
			if !member.ValidUntil.IsZero() {
				validUntil = &member.ValidUntil
			}
		}
	}

	start := GridStart(year, month)
	end := start.AddDate(0, 0, gridCells-1)
	cur, err := db.AttendanceCollection.Find(ctx, bson.M{
		"gymid":    gymID,
		"personid": personID,
		"date": bson.M{
			"$gte": start.Format("2006-01-02"),
			"$lte": end.Format("2006-01-02"),
		},
	})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not load attendance", nil)
		return
	}
	defer cur.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode attendance", nil)
		return
	}

	view := BuildMonth(year, month, now, join, validUntil, recs)
	utils.SendResponse(w, http.StatusOK, view, "Calendar built", nil)
}
