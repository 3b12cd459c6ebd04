package gyms

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"fitpass/db"
	"fitpass/globals"
	"fitpass/models"
	"fitpass/mq"
	"fitpass/rdx"
	"fitpass/trials"
	"fitpass/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const logoDir = "static/gymlogos"

type gymPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Register creates a gym in pending state; an admin approves or rejects it.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p gymPayload
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

	ownerID, _ := r.Context().Value(globals.UserIDKey).(string)

	gym := models.Gym{
		GymID:     utils.GetUUID(),
		Name:      strings.TrimSpace(p.Name),
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		Phone:     strings.TrimSpace(p.Phone),
		Address:   p.Address,
		City:      p.City,
		OwnerID:   ownerID,
		Status:    models.GymPending,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.GymsCollection.CountDocuments(ctx, bson.M{"email": gym.Email})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not register gym", nil)
		return
	}
	if count > 0 {
		utils.SendResponse(w, http.StatusConflict, nil, "A gym with this email is already registered", nil)
		return
	}

	if _, err := db.GymsCollection.InsertOne(ctx, gym); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not register gym", nil)
		return
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "gym.registered",
		Title:     "Gym registration pending",
		Body:      "Your gym " + gym.Name + " is awaiting approval.",
		Recipient: gym.Email,
	})

	utils.SendResponse(w, http.StatusCreated, gym, "Gym registered, pending approval", nil)
}

// SetStatus is the admin approve/reject operation.
func SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid JSON payload", err)
		return
	}
	if body.Status != models.GymApproved && body.Status != models.GymRejected {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Status must be approved or rejected", nil)
		return
	}

	set := bson.M{"status": body.Status}
	if body.Status == models.GymApproved {
		set["approvedat"] = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res := db.GymsCollection.FindOneAndUpdate(ctx,
		bson.M{"gymid": gymID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Gym
	if err := res.Decode(&updated); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}

	// drop the cached approved entry so booking paths see the new status
	if err := rdx.RdxDel(trials.GymCacheKey(gymID)); err != nil {
		log.Printf("gym cache invalidation failed for %s: %v", gymID, err)
	}

	mq.Emit(r.Context(), mq.Event{
		Name:      "gym." + body.Status,
		Title:     "Gym " + body.Status,
		Body:      "Your gym " + updated.Name + " was " + body.Status + ".",
		Recipient: updated.Email,
	})

	utils.SendResponse(w, http.StatusOK, updated, "Gym "+body.Status, nil)
}

// List returns gyms, filterable by status and city.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	filter := bson.M{}
	if s := q.Get("status"); s != "" {
		filter["status"] = s
	}
	if c := q.Get("city"); c != "" {
		filter["city"] = c
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.GymsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdat": -1}))
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list gyms", nil)
		return
	}
	defer cur.Close(ctx)

	gyms := []models.Gym{}
	if err := cur.All(ctx, &gyms); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode gyms", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"gyms": gyms}, "Gyms fetched", nil)
}

func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var gym models.Gym
	if err := db.GymsCollection.FindOne(ctx, bson.M{"gymid": ps.ByName("gymid")}).Decode(&gym); err != nil {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, gym, "Gym fetched", nil)
}

// UploadLogo stores the gym logo and a thumbnail derived from it.
func UploadLogo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid multipart form", err)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "logo file is required", nil)
		return
	}
	defer file.Close()

	if !utils.SupportedImageTypes[header.Header.Get("Content-Type")] {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Unsupported image type", nil)
		return
	}

	if err := utils.EnsureDir(logoDir); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not store logo", nil)
		return
	}
	filename, err := utils.SaveFile(file, header, logoDir)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not store logo", nil)
		return
	}
	thumb, err := utils.SaveThumbnail(logoDir, filename)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not build thumbnail", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.GymsCollection.UpdateOne(ctx,
		bson.M{"gymid": gymID},
		bson.M{"$set": bson.M{"logo": filename, "logothumb": thumb}},
	)
	if err != nil || res.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, nil, "Gym not found", nil)
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{"logo": filename, "logoThumb": thumb}, "Logo uploaded", nil)
}
