package pay

import (
	"context"
	"log"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/utils"

	"go.mongodb.org/mongo-driver/bson"
)

const cashCodeTTL = 15 * time.Minute

// NewCashCode issues a one-time validation code for a pending cash payment.
// Codes live in the store with an explicit expiry, not in process memory, so
// they survive restarts; reads always check expiresat.
func NewCashCode(ctx context.Context, paymentID, gymID string) (*models.CashCode, error) {
	now := time.Now().UTC()
	code := models.CashCode{
		Code:      utils.GenerateRandomDigitString(6),
		PaymentID: paymentID,
		GymID:     gymID,
		Used:      false,
		ExpiresAt: now.Add(cashCodeTTL),
		CreatedAt: now,
	}
	if _, err := db.CashCodesCollection.InsertOne(ctx, code); err != nil {
		return nil, err
	}
	return &code, nil
}

// StartCodeSweeper periodically deletes expired codes. Expiry is already
// enforced on read; the sweep just keeps the collection small.
func StartCodeSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	for range ticker.C {
		res, err := db.CashCodesCollection.DeleteMany(context.Background(),
			bson.M{"expiresat": bson.M{"$lt": time.Now().UTC()}})
		if err != nil {
			log.Printf("[CodeSweeper] delete failed: %v", err)
			continue
		}
		if res.DeletedCount > 0 {
			log.Printf("[CodeSweeper] removed %d expired codes", res.DeletedCount)
		}
	}
}
