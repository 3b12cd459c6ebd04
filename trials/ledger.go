package trials

import (
	"context"
	"errors"
	"time"

	"fitpass/db"
	"fitpass/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrLimitExceeded = errors.New("trial limit exceeded")
	// ErrDuplicateBooking means this booking id already hit the ledger;
	// callers treat it as a successful no-op.
	ErrDuplicateBooking = errors.New("booking already recorded")
	ErrNotScheduled     = errors.New("no scheduled trial for booking")
)

// GetUsage loads the user's trial record with the lazy monthly reset applied
// and persisted.
func GetUsage(ctx context.Context, userID string, now time.Time, pol Policy) (models.TrialUsage, error) {
	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.TrialUsage{}, ErrUserNotFound
	}
	if err != nil {
		return models.TrialUsage{}, err
	}

	rec, changed := ResetIfStale(user.Trials, now, pol)
	if !changed {
		return rec, nil
	}

	// Guard on the old reset date so concurrent resets collapse into one.
	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID, "trials.lastresetdate": user.Trials.LastResetDate},
		bson.M{"$set": bson.M{
			"trials.total":         rec.Total,
			"trials.used":          rec.Used,
			"trials.remaining":     rec.Remaining,
			"trials.lastresetdate": rec.LastResetDate,
		}},
	)
	if err != nil {
		return models.TrialUsage{}, err
	}
	return rec, nil
}

// bookFilter matches only while the quota has room and the booking id is not
// already in the history, so a replay or a lost race matches zero documents.
func bookFilter(userID, bookingID string) bson.M {
	return bson.M{
		"userid":                   userID,
		"trials.remaining":         bson.M{"$gt": 0},
		"trials.history.bookingid": bson.M{"$ne": bookingID},
	}
}

func bookUpdate(entry models.TrialHistoryEntry) bson.M {
	return bson.M{
		"$inc":  bson.M{"trials.used": 1, "trials.remaining": -1},
		"$push": bson.M{"trials.history": entry},
	}
}

// historyHas reports whether the booking id already hit the ledger.
func historyHas(rec models.TrialUsage, bookingID string) bool {
	for _, h := range rec.History {
		if h.BookingID == bookingID {
			return true
		}
	}
	return false
}

// BookTrial records a trial booking against the user's quota as one atomic
// conditional update: the decrement only matches while remaining > 0 and the
// booking id is not already in the history, so a replay or a lost race can
// never double-count or drive the quota negative.
func BookTrial(ctx context.Context, userID string, entry models.TrialHistoryEntry) error {
	if _, err := GetUsage(ctx, userID, entry.BookingDate, PolicyFromEnv()); err != nil {
		return err
	}

	res, err := db.UserCollection.UpdateOne(ctx,
		bookFilter(userID, entry.BookingID), bookUpdate(entry))
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The guarded update matched nothing: figure out which condition failed.
	var user models.User
	err = db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if historyHas(user.Trials, entry.BookingID) {
		return ErrDuplicateBooking
	}
	return ErrLimitExceeded
}

// cancelFilter only matches while used > 0 and the entry is still scheduled,
// which floors the counter and makes the refund single-shot per booking.
func cancelFilter(userID, bookingID string) bson.M {
	return bson.M{
		"userid":      userID,
		"trials.used": bson.M{"$gt": 0},
		"trials.history": bson.M{"$elemMatch": bson.M{
			"bookingid": bookingID,
			"status":    models.TrialScheduled,
		}},
	}
}

func cancelUpdate() bson.M {
	return bson.M{
		"$inc": bson.M{"trials.used": -1, "trials.remaining": 1},
		"$set": bson.M{"trials.history.$[e].status": models.TrialCancelled},
	}
}

// CancelTrial refunds one trial for a scheduled booking. The history entry is
// marked cancelled in place, never removed, so the audit trail survives. The
// symmetric $inc keeps used + remaining == total, which caps remaining at
// total.
func CancelTrial(ctx context.Context, userID, bookingID string) error {
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"e.bookingid": bookingID}},
	})
	res, err := db.UserCollection.UpdateOne(ctx,
		cancelFilter(userID, bookingID), cancelUpdate(), opts)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	var user models.User
	err = db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	return ErrNotScheduled
}

// CompleteTrial marks a scheduled history entry completed when the operator
// closes out the booking. No counter movement: the trial stays consumed.
func CompleteTrial(ctx context.Context, userID, bookingID string) error {
	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID, "trials.history": bson.M{"$elemMatch": bson.M{
			"bookingid": bookingID,
			"status":    models.TrialScheduled,
		}}},
		bson.M{"$set": bson.M{"trials.history.$[e].status": models.TrialCompleted}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"e.bookingid": bookingID}},
		}),
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotScheduled
	}
	return nil
}

// CanBookTrial is the read-only eligibility check: load usage (with lazy
// reset), then evaluate the policy rules. The ledger re-checks atomically on
// write, so a stale answer here can deny but never oversell.
func CanBookTrial(ctx context.Context, userID, gymID string, requested, now time.Time, pol Policy) (Decision, error) {
	rec, err := GetUsage(ctx, userID, now, pol)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(rec, gymID, requested, now, pol), nil
}
