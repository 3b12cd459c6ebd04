package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/mq"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type paymentPayload struct {
	MemberID string  `json:"memberId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Method   string  `json:"method"`
	Plan     string  `json:"plan"`
}

// CreatePayment records a membership payment. Online payments complete
// immediately; cash payments stay pending until the front desk verifies the
// validation code.
func CreatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")

	var p paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}
	if p.MemberID == "" || p.Amount <= 0 {
		utils.SendResponse(w, http.StatusBadRequest, nil, "memberId and a positive amount are required", nil)
		return
	}
	if p.Method != models.PayOnline && p.Method != models.PayCash {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Method must be online or cash", nil)
		return
	}
	if p.Currency == "" {
		p.Currency = "INR"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var member models.Member
	if err := db.MembersCollection.FindOne(ctx, bson.M{"gymid": gymID, "memberid": p.MemberID}).Decode(&member); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Member not found", nil)
		return
	}

	now := time.Now().UTC()
	payment := models.Payment{
		PaymentID: utils.GetUUID(),
		GymID:     gymID,
		MemberID:  p.MemberID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Method:    p.Method,
		Plan:      p.Plan,
		CreatedAt: now,
	}

	var code *models.CashCode
	if p.Method == models.PayOnline {
		payment.Status = models.PaymentCompleted
		payment.PaidAt = now
	} else {
		payment.Status = models.PaymentPending
		c, err := NewCashCode(ctx, payment.PaymentID, gymID)
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not issue validation code", nil)
			return
		}
		code = c
	}

	if _, err := db.PaymentsCollection.InsertOne(ctx, payment); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not record payment", nil)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "payment.created",
		Title:     "Payment " + payment.Status,
		Body:      fmt.Sprintf("Payment of %.2f %s for %s is %s", payment.Amount, payment.Currency, member.Name, payment.Status),
		Recipient: member.Email,
	})

	resp := utils.M{"payment": payment}
	if code != nil {
		resp["cashCode"] = code.Code
		resp["expiresAt"] = code.ExpiresAt
	}
	utils.SendResponse(w, http.StatusCreated, resp, "Payment recorded", nil)
}

// VerifyCashCode burns a validation code and completes its payment. The code
// is claimed with one guarded update, so two cashiers cannot both redeem it.
func VerifyCashCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		utils.SendResponse(w, http.StatusBadRequest, nil, "code is required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.CashCodesCollection.FindOneAndUpdate(ctx,
		bson.M{
			"code":      body.Code,
			"used":      false,
			"expiresat": bson.M{"$gt": time.Now().UTC()},
		},
		bson.M{"$set": bson.M{"used": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var code models.CashCode
	if err := res.Decode(&code); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Invalid or expired code", nil)
		return
	}

	now := time.Now().UTC()
	pres := db.PaymentsCollection.FindOneAndUpdate(ctx,
		bson.M{"paymentid": code.PaymentID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{"status": models.PaymentCompleted, "paidat": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var payment models.Payment
	if err := pres.Decode(&payment); err != nil {
		utils.SendResponse(w, http.StatusConflict, nil, "Payment already settled", nil)
		return
	}

	utils.SendResponse(w, http.StatusOK, payment, "Payment verified", nil)
}

// ListPayments returns a gym's payments, filterable by status and member.
func ListPayments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	filter := bson.M{"gymid": ps.ByName("gymid")}
	q := r.URL.Query()
	if s := q.Get("status"); s != "" {
		filter["status"] = s
	}
	if m := q.Get("memberId"); m != "" {
		filter["memberid"] = m
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.PaymentsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdat": -1}))
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list payments", nil)
		return
	}
	defer cur.Close(ctx)

	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode payments", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"payments": payments}, "Payments fetched", nil)
}
