package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fitpass/db"
	"fitpass/globals"
	"fitpass/middleware"
	"fitpass/models"
	"fitpass/trials"
	"fitpass/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	refreshTokenTTL = 7 * 24 * time.Hour
	accessTokenTTL  = 15 * time.Minute
)

func generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.UserID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func registerHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid input", err)
		return
	}

	missing := utils.MissingFields(map[string]string{
		"username": input.Username, "email": input.Email, "password": input.Password,
	})
	if len(missing) > 0 {
		utils.SendResponse(w, http.StatusBadRequest, utils.M{"missing": missing}, "Missing required fields", nil)
		return
	}
	if !utils.IsValidEmail(input.Email) {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid email address", nil)
		return
	}
	if len(input.Password) < 8 {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Password must be at least 8 characters", nil)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	count, err := db.UserCollection.CountDocuments(context.TODO(), bson.M{
		"$or": []bson.M{{"username": input.Username}, {"email": email}},
	})
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not register", nil)
		return
	}
	if count > 0 {
		utils.SendResponse(w, http.StatusConflict, nil, "Username or email already taken", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not register", nil)
		return
	}

	now := time.Now().UTC()
	pol := trials.PolicyFromEnv()
	user := models.User{
		UserID:    utils.GetUUID(),
		Username:  input.Username,
		Email:     email,
		Password:  string(hash),
		Role:      []string{"user"},
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
		Trials: models.TrialUsage{
			Total:         pol.MonthlyTrials,
			Used:          0,
			Remaining:     pol.MonthlyTrials,
			LastResetDate: now,
			History:       []models.TrialHistoryEntry{},
		},
	}

	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not register", nil)
		return
	}

	utils.SendResponse(w, http.StatusCreated, utils.M{"userid": user.UserID, "username": user.Username}, "Registered", nil)
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid input", err)
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Username and password are required", nil)
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"username": input.Username}).Decode(&storedUser)
	if err != nil {
		utils.SendResponse(w, http.StatusUnauthorized, nil, "Invalid username or password", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		utils.SendResponse(w, http.StatusUnauthorized, nil, "Invalid username or password", nil)
		return
	}

	tokenString, err := generateAccessToken(storedUser)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Failed to generate token", nil)
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Failed to generate refresh token", nil)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{
			"refreshtoken": hashToken(refreshToken),
			"refreshexp":   time.Now().Add(refreshTokenTTL),
			"last_login":   time.Now(),
		}},
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Failed to persist session", nil)
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"userid":       storedUser.UserID,
		"username":     storedUser.Username,
	}, "Logged in", nil)
}

func refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.SendResponse(w, http.StatusBadRequest, nil, "Invalid input", err)
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"userid": input.UserID}).Decode(&storedUser)
	if err != nil {
		utils.SendResponse(w, http.StatusUnauthorized, nil, "Invalid session", nil)
		return
	}

	if storedUser.RefreshToken != hashToken(input.RefreshToken) || time.Now().After(storedUser.RefreshExpiry) {
		utils.SendResponse(w, http.StatusUnauthorized, nil, "Session expired, log in again", nil)
		return
	}

	tokenString, err := generateAccessToken(storedUser)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Failed to generate token", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, utils.M{"token": tokenString}, "Token refreshed", nil)
}

func logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(globals.UserIDKey).(string)
	if userID == "" {
		utils.SendResponse(w, http.StatusUnauthorized, nil, "Not logged in", nil)
		return
	}
	_, err := db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": userID},
		bson.M{"$unset": bson.M{"refreshtoken": "", "refreshexp": ""}},
	)
	if err != nil {
		utils.SendResponse(w, http.StatusInternalServerError, nil, "Could not log out", nil)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Logged out", nil)
}
