package trials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fitpass/db"
	"fitpass/globals"
	"fitpass/models"
	"fitpass/mq"
	"fitpass/rdx"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validSessionTypes = []string{
	models.SessionTrial, models.SessionPersonal, models.SessionGroup, models.SessionAssessment,
}

var validStatuses = []string{
	models.BookingPending, models.BookingConfirmed, models.BookingCompleted,
	models.BookingCancelled, models.BookingNoShow,
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

const gymCacheTTL = 5 * time.Minute

// GymCacheKey is the redis key for a cached approved gym; gyms invalidates it
// on status changes.
func GymCacheKey(gymID string) string {
	return "gym:approved:" + gymID
}

func loadApprovedGym(ctx context.Context, gymID string) (models.Gym, error) {
	var gym models.Gym
	if cached, err := rdx.RdxGet(GymCacheKey(gymID)); err == nil && cached != "" {
		if err := json.Unmarshal([]byte(cached), &gym); err == nil {
			return gym, nil
		}
	}

	err := db.GymsCollection.FindOne(ctx, bson.M{"gymid": gymID, "status": models.GymApproved}).Decode(&gym)
	if err != nil {
		return gym, err
	}
	if data, err := json.Marshal(gym); err == nil {
		// cache miss fill; a failure here only costs the next lookup
		_ = rdx.RdxSetWithTTL(GymCacheKey(gymID), string(data), gymCacheTTL)
	}
	return gym, nil
}

type bookingPayload struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	GymID         string `json:"gymId"`
	SessionType   string `json:"sessionType"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
	Notes         string `json:"notes"`
}

// CreateTrialBooking accepts the public booking form. Anonymous bookings are
// allowed; authenticated trial bookings additionally hit the quota ledger.
func CreateTrialBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}

	missing := utils.MissingFields(map[string]string{
		"name": p.Name, "email": p.Email, "phone": p.Phone,
		"gymId": p.GymID, "sessionType": p.SessionType,
		"preferredDate": p.PreferredDate, "preferredTime": p.PreferredTime,
	})
	if len(missing) > 0 {
		utils.SendResponse(w, http.StatusBadRequest, utils.M{"missing": missing}, "Missing required fields", nil)
		return
	}
	if !utils.IsValidEmail(p.Email) {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid email address", nil)
		return
	}
	if !utils.IsValidPhone(p.Phone) {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid phone number", nil)
		return
	}
	if !contains(validSessionTypes, p.SessionType) {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid session type", nil)
		return
	}
	trialDate, err := time.Parse("2006-01-02", p.PreferredDate)
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid preferred date, expected YYYY-MM-DD", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	gym, err := loadApprovedGym(ctx, p.GymID)
	if err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	now := time.Now().UTC()

	booking := models.TrialBooking{
		BookingID:     utils.GetUUID(),
		Name:          strings.TrimSpace(p.Name),
		Email:         strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:         strings.TrimSpace(p.Phone),
		GymID:         p.GymID,
		SessionType:   p.SessionType,
		PreferredDate: p.PreferredDate,
		PreferredTime: p.PreferredTime,
		Status:        models.BookingPending,
		UserID:        userID,
		Notes:         p.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	pol := PolicyFromEnv()
	if userID != "" && p.SessionType == models.SessionTrial {
		dec, err := CanBookTrial(ctx, userID, p.GymID, trialDate, now, pol)
		if err == ErrUserNotFound {
			utils.SendResponse(w, http.StatusNotFound, nil, "User not found", nil)
			return
		}
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not evaluate trial eligibility", nil)
			return
		}
		if !dec.CanBook {
			utils.SendResponse(w, http.StatusConflict, dec, dec.Message, nil)
			return
		}
	}

	if _, err := db.TrialBookingsCollection.InsertOne(ctx, booking); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not save booking", nil)
		return
	}

	if userID != "" && p.SessionType == models.SessionTrial {
		entry := models.TrialHistoryEntry{
			BookingID:   booking.BookingID,
			GymID:       gym.GymID,
			GymName:     gym.Name,
			BookingDate: now,
			TrialDate:   trialDate,
			Status:      models.TrialScheduled,
		}
		// The ledger re-checks the quota inside one guarded update; the
		// eligibility answer above may already be stale.
		switch err := BookTrial(ctx, userID, entry); err {
		case nil, ErrDuplicateBooking:
		case ErrLimitExceeded:
			_, _ = db.TrialBookingsCollection.DeleteOne(ctx, bson.M{"bookingid": booking.BookingID})
			utils.SendResponse(w, http.StatusConflict, nil, "Monthly trial limit reached", nil)
			return
		default:
			_, _ = db.TrialBookingsCollection.DeleteOne(ctx, bson.M{"bookingid": booking.BookingID})
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not record trial usage", nil)
			return
		}
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "booking.created",
		Title:     "New trial booking",
		Body:      fmt.Sprintf("%s booked a %s session at %s on %s %s", booking.Name, booking.SessionType, gym.Name, booking.PreferredDate, booking.PreferredTime),
		Recipient: gym.Email,
	})

	utils.SendResponse(w, http.StatusCreated, booking, "Booking created", nil)
}

// ListTrialBookings returns a paginated, filterable list for operators.
func ListTrialBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = opts.Status
	}
	if opts.GymID != "" {
		filter["gymid"] = opts.GymID
	}
	if opts.SessionType != "" {
		filter["sessiontype"] = opts.SessionType
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	total, err := db.TrialBookingsCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list bookings", nil)
		return
	}

	findOpts := options.Find().
		SetSort(bson.M{"createdat": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cur, err := db.TrialBookingsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list bookings", nil)
		return
	}
	defer cur.Close(ctx)

	bookings := []models.TrialBooking{}
	if err := cur.All(ctx, &bookings); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode bookings", nil)
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"bookings": bookings,
		"total":    total,
		"page":     opts.Page,
		"limit":    opts.Limit,
	}, "Bookings fetched", nil)
}

// UpdateBookingStatus performs operator transitions. Completing or cancelling
// a trial booking keeps the owner's history entry in sync.
func UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}
	if !contains(validStatuses, body.Status) {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid status", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.TrialBookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"bookingid": bookingID},
		bson.M{"$set": bson.M{"status": body.Status, "updatedat": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.TrialBooking
	if err := res.Decode(&updated); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Booking not found", nil)
		return
	}

	if updated.UserID != "" && updated.SessionType == models.SessionTrial {
		switch body.Status {
		case models.BookingCompleted:
			if err := CompleteTrial(ctx, updated.UserID, bookingID); err != nil && err != ErrNotScheduled {
				utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not update trial history", nil)
				return
			}
		case models.BookingCancelled:
			if err := CancelTrial(ctx, updated.UserID, bookingID); err != nil && err != ErrNotScheduled {
				utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not refund trial", nil)
				return
			}
		}
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "booking.status",
		Title:     "Booking " + body.Status,
		Body:      fmt.Sprintf("Your %s session on %s is now %s", updated.SessionType, updated.PreferredDate, body.Status),
		Recipient: updated.Email,
	})

	utils.SendResponse(w, http.StatusOK, updated, "Booking updated", nil)
}

// DeleteTrialBooking removes a booking outright (admin cleanup).
func DeleteTrialBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.TrialBookingsCollection.DeleteOne(ctx, bson.M{"bookingid": ps.ByName("id")})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not delete booking", nil)
		return
	}
	if res.DeletedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, nil, "Booking not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Booking deleted", nil)
}

// CancelTrialBooking lets the owner cancel their own booking. A trial
// cancellation refunds one quota slot through the ledger.
func CancelTrialBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	email, _ := r.Context().Value(globals.EmailKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.TrialBooking
	err := db.TrialBookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Booking not found", nil)
		return
	}

	owns := (booking.UserID != "" && booking.UserID == userID) ||
		(booking.Email != "" && strings.EqualFold(booking.Email, email))
	if !owns {
		utils.SendResponse(w, http.StatusForbidden, nil, "You can only cancel your own bookings", nil)
		return
	}

	if booking.Status == models.BookingCancelled {
		utils.SendResponse(w, http.StatusOK, booking, "Booking already cancelled", nil)
		return
	}
	if booking.Status == models.BookingCompleted || booking.Status == models.BookingNoShow {
		utils.SendResponse(w, http.StatusConflict, nil, "Booking can no longer be cancelled", nil)
		return
	}

	res := db.TrialBookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"bookingid": bookingID, "status": bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed}}},
		bson.M{"$set": bson.M{"status": models.BookingCancelled, "updatedat": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.TrialBooking
	if err := res.Decode(&updated); err != nil {
		utils.SendResponse(w, http.StatusConflict, nil, "Booking can no longer be cancelled", nil)
		return
	}

	if updated.UserID != "" && updated.SessionType == models.SessionTrial {
		if err := CancelTrial(ctx, updated.UserID, bookingID); err != nil && err != ErrNotScheduled {
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not refund trial", nil)
			return
		}
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "booking.cancelled",
		Title:     "Booking cancelled",
		Body:      fmt.Sprintf("Your %s session on %s was cancelled", updated.SessionType, updated.PreferredDate),
		Recipient: updated.Email,
	})

	utils.SendResponse(w, http.StatusOK, updated, "Booking cancelled", nil)
}

// CheckTrialAvailability is the read-only eligibility endpoint for (gym, date).
func CheckTrialAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	gymID := r.URL.Query().Get("gymId")
	dateStr := r.URL.Query().Get("date")
	if gymID == "" || dateStr == "" {
		utils.SendResponse(w, http.StatusBadRequest, nil, "gymId and date are required", nil)
		return
	}
	requested, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}

	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := loadApprovedGym(ctx, gymID); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}

	dec, err := CanBookTrial(ctx, userID, gymID, requested, time.Now().UTC(), PolicyFromEnv())
	if err == ErrUserNotFound {
		utils.SendResponse(w, http.StatusNotFound, nil, "User not found", nil)
		return
	}
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not evaluate trial eligibility", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, dec, dec.Message, nil)
}

// GetTrialHistory returns the caller's counters and full trial history.
func GetTrialHistory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rec, err := GetUsage(ctx, userID, time.Now().UTC(), PolicyFromEnv())
	if err == ErrUserNotFound {
		utils.SendResponse(w, http.StatusNotFound, nil, "User not found", nil)
		return
	}
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not load trial history", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, rec, "Trial history fetched", nil)
}
