package gyms

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type memberPayload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Plan           string `json:"plan"`
	JoinDate       string `json:"joinDate"`   // YYYY-MM-DD, defaults to today
	ValidUntil     string `json:"validUntil"` // YYYY-MM-DD, optional
	AllowDuplicate bool   `json:"allowDuplicate"`
}

// CreateMember adds a member to a gym. A duplicate email or phone within the
// same gym is a conflict unless the operator sets allowDuplicate.
func CreateMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")

	var p memberPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}

	missing := utils.MissingFields(map[string]string{
		"name": p.Name, "email": p.Email, "phone": p.Phone,
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

	email := strings.ToLower(strings.TrimSpace(p.Email))
	phone := strings.TrimSpace(p.Phone)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := db.GymsCollection.FindOne(ctx, bson.M{"gymid": gymID}).Err(); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}

	if !p.AllowDuplicate {
		count, err := db.MembersCollection.CountDocuments(ctx, bson.M{
			"gymid": gymID,
			"$or":   []bson.M{{"email": email}, {"phone": phone}},
		})
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not create member", nil)
			return
		}
		if count > 0 {
			utils.SendResponse(w, http.StatusConflict, nil,
				"A member with this email or phone already exists in this gym", nil)
			return
		}
	}

	now := time.Now().UTC()
	joinDate := now
	if p.JoinDate != "" {
		t, err := time.Parse("2006-01-02", p.JoinDate)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid joinDate, expected YYYY-MM-DD", nil)
			return
		}
		joinDate = t
	}
	var validUntil time.Time
	if p.ValidUntil != "" {
		t, err := time.Parse("2006-01-02", p.ValidUntil)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid validUntil, expected YYYY-MM-DD", nil)
			return
		}
		validUntil = t
	}

	member := models.Member{
		MemberID:   utils.GetUUID(),
		GymID:      gymID,
		Name:       strings.TrimSpace(p.Name),
		Email:      email,
		Phone:      phone,
		Plan:       p.Plan,
		JoinDate:   joinDate,
		ValidUntil: validUntil,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := db.MembersCollection.InsertOne(ctx, member); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not create member", nil)
		return
	}
	utils.SendResponse(w, http.StatusCreated, member, "Member created", nil)
}

func ListMembers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	filter := bson.M{"gymid": ps.ByName("gymid")}
	if r.URL.Query().Get("active") == "true" {
		filter["active"] = true
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.M{"createdat": -1}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))
	cur, err := db.MembersCollection.Find(ctx, filter, findOpts)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list members", nil)
		return
	}
	defer cur.Close(ctx)

	members := []models.Member{}
	if err := cur.All(ctx, &members); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode members", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"members": members, "page": opts.Page}, "Members fetched", nil)
}

func GetMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var member models.Member
	err := db.MembersCollection.FindOne(ctx, bson.M{
		"gymid": ps.ByName("gymid"), "memberid": ps.ByName("id"),
	}).Decode(&member)
	if err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Member not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, member, "Member fetched", nil)
}

// UpdateMember patches name/plan/validUntil/active.
func UpdateMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var p struct {
		Name       string `json:"name"`
		Plan       string `json:"plan"`
		ValidUntil string `json:"validUntil"`
		Active     *bool  `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}

	set := bson.M{"updatedat": time.Now().UTC()}
	if p.Name != "" {
		set["name"] = strings.TrimSpace(p.Name)
	}
	if p.Plan != "" {
		set["plan"] = p.Plan
	}
	if p.ValidUntil != "" {
		t, err := time.Parse("2006-01-02", p.ValidUntil)
		if err != nil {
			utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid validUntil, expected YYYY-MM-DD", nil)
			return
		}
		set["validuntil"] = t
	}
	if p.Active != nil {
		set["active"] = *p.Active
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.MembersCollection.FindOneAndUpdate(ctx,
		bson.M{"gymid": ps.ByName("gymid"), "memberid": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Member
	if err := res.Decode(&updated); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Member not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, updated, "Member updated", nil)
}

// DeleteMember deactivates rather than removes: attendance history keeps
// pointing at a real person.
func DeleteMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.MembersCollection.UpdateOne(ctx,
		bson.M{"gymid": ps.ByName("gymid"), "memberid": ps.ByName("id")},
		bson.M{"$set": bson.M{"active": false, "updatedat": time.Now().UTC()}},
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not remove member", nil)
		return
	}
	if res.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, nil, "Member not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Member deactivated", nil)
}
