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

type trainerPayload struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialty      string `json:"specialty"`
	AllowDuplicate bool   `json:"allowDuplicate"`
}

func CreateTrainer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gymID := ps.ByName("gymid")

	var p trainerPayload
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

	email := strings.ToLower(strings.TrimSpace(p.Email))
	phone := strings.TrimSpace(p.Phone)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if !p.AllowDuplicate {
		count, err := db.TrainersCollection.CountDocuments(ctx, bson.M{
			"gymid": gymID,
			"$or":   []bson.M{{"email": email}, {"phone": phone}},
		})
		if err != nil {
			utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not create trainer", nil)
			return
		}
		if count > 0 {
			utils.SendResponse(w, http.StatusConflict, nil,
				"A trainer with this email or phone already exists in this gym", nil)
			return
		}
	}

	now := time.Now().UTC()
	trainer := models.Trainer{
		TrainerID: utils.GetUUID(),
		GymID:     gymID,
		Name:      strings.TrimSpace(p.Name),
		Email:     email,
		Phone:     phone,
		Specialty: p.Specialty,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.TrainersCollection.InsertOne(ctx, trainer); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not create trainer", nil)
		return
	}
	utils.SendResponse(w, http.StatusCreated, trainer, "Trainer created", nil)
}

func ListTrainers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.TrainersCollection.Find(ctx,
		bson.M{"gymid": ps.ByName("gymid")},
		options.Find().SetSort(bson.M{"createdat": -1}),
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not list trainers", nil)
		return
	}
	defer cur.Close(ctx)

	trainers := []models.Trainer{}
	if err := cur.All(ctx, &trainers); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not decode trainers", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"trainers": trainers}, "Trainers fetched", nil)
}

func DeleteTrainer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.TrainersCollection.UpdateOne(ctx,
		bson.M{"gymid": ps.ByName("gymid"), "trainerid": ps.ByName("id")},
		bson.M{"$set": bson.M{"active": false, "updatedat": time.Now().UTC()}},
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not remove trainer", nil)
		return
	}
	if res.MatchedCount == 0 {
		utils.SendResponse(w, http.StatusNotFound, nil, "Trainer not found", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Trainer deactivated", nil)
}
