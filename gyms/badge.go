package gyms

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func badgeSecret() []byte {
	if s := os.Getenv("BADGE_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-badge-secret")
}

// badgePayload builds the signed string encoded into the QR:
// gymID|memberID|validUntil|signature.
func badgePayload(gymID, memberID string, validUntil time.Time) string {
	data := fmt.Sprintf("%s|%s|%s", gymID, memberID, validUntil.Format("2006-01-02"))
	h := hmac.New(sha256.New, badgeSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return data + "|" + sig
}

// VerifyBadgePayload checks the signature on a scanned badge string.
func VerifyBadgePayload(payload string) bool {
	i := len(payload) - 1
	for ; i >= 0 && payload[i] != '|'; i-- {
	}
	if i <= 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]
	h := hmac.New(sha256.New, badgeSecret())
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

// MemberBadge renders a member's check-in badge as a QR PNG. The payload is
// HMAC-signed so the front desk scanner can verify it offline.
func MemberBadge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")
	memberID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var member models.Member
	err := db.MembersCollection.FindOne(ctx, bson.M{"gymid": gymID, "memberid": memberID}).Decode(&member)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Member not found")
		return
	}
	if !member.Active {
		utils.RespondWithError(w, http.StatusConflict, "Member is not active")
		return
	}

	png, err := qrcode.Encode(badgePayload(gymID, memberID, member.ValidUntil), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate badge")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=badge-%s.png", memberID))
	w.Write(png)
}
