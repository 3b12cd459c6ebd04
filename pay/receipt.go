package pay

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
)

// Receipt renders a completed payment as a PDF.
func Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	paymentID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(ctx, bson.M{"paymentid": paymentID}).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
		return
	}
	if payment.Status != models.PaymentCompleted {
		utils.RespondWithError(w, http.StatusConflict, "Receipt available for completed payments only")
		return
	}

	var gym models.Gym
	_ = db.GymsCollection.FindOne(ctx, bson.M{"gymid": payment.GymID}).Decode(&gym)
	var member models.Member
	_ = db.MembersCollection.FindOne(ctx, bson.M{"gymid": payment.GymID, "memberid": payment.MemberID}).Decode(&member)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Receipt No:", payment.PaymentID)
	line("Gym:", gym.Name)
	line("Member:", member.Name)
	line("Plan:", payment.Plan)
	line("Method:", payment.Method)
	line("Amount:", fmt.Sprintf("%.2f %s", payment.Amount, payment.Currency))
	line("Paid At:", payment.PaidAt.Format("2006-01-02 15:04 MST"))

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 8, "This receipt was generated electronically and needs no signature.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", paymentID))
	w.Write(buf.Bytes())
}
