package server

import (
	"encoding/json"
	"net/http"

	"proxyvet/internal/api/dto"
	"proxyvet/internal/auth"
	"proxyvet/internal/database"
	"proxyvet/internal/domain"

	"github.com/charmbracelet/log"
)

func checkLogin(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func registerUser(w http.ResponseWriter, r *http.Request) {
	var credentials dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if !auth.IsValidEmail(credentials.Email) {
		writeError(w, "Invalid email format", http.StatusBadRequest)
		return
	}

	if len(credentials.Password) < 8 {
		writeError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}

	taken, err := database.EmailTaken(credentials.Email)
	if err != nil {
		writeError(w, "Failed to query database", http.StatusInternalServerError)
		return
	}
	if taken {
		writeError(w, "Email already in use", http.StatusConflict)
		return
	}

	hashedPassword, err := auth.HashPassword(credentials.Password)
	if err != nil {
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := domain.User{
		Email:    credentials.Email,
		Password: hashedPassword,
	}

	if err := database.CreateUser(&user); err != nil {
		writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func loginUser(w http.ResponseWriter, r *http.Request) {
	var credentials dto.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user, err := database.GetUserByEmail(credentials.Email)
	if err != nil {
		writeError(w, "User not found", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPasswordHash(credentials.Password, user.Password) {
		writeError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "role": user.Role})
}

func changePassword(w http.ResponseWriter, r *http.Request) {
	userID, userErr := auth.GetUserIDFromRequest(r)
	if userErr != nil {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var request dto.ChangePassword
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user := database.GetUserFromId(userID)
	if !auth.CheckPasswordHash(request.OldPassword, user.Password) {
		writeError(w, "Invalid old password", http.StatusUnauthorized)
		return
	}

	if len(request.NewPassword) < 8 {
		writeError(w, "Password must be at least 8 characters long", http.StatusBadRequest)
		return
	}

	hashed, err := auth.HashPassword(request.NewPassword)
	if err != nil {
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := database.ChangePassword(userID, hashed); err != nil {
		log.Error("Could not change password", "error", err)
		writeError(w, "Failed to change password", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
