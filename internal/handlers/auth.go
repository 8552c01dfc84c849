package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/spamlookup/spamlookup-backend/internal/middleware"
	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

// RegisterRequest is the registration payload. Password is write-only.
type RegisterRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields
	if req.Username == "" || req.Password == "" || req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "Username, password, and phone number are required")
		return
	}

	if err := utils.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			writeError(w, http.StatusBadRequest, "Enter a valid email address.")
			return
		}
	}

	ctx := r.Context()

	// Check for existing username/phone before inserting; the unique
	// constraints still back this up under races.
	if _, err := h.Stores.Users.GetByUsername(ctx, req.Username); err == nil {
		writeError(w, http.StatusBadRequest, "A user with this username already exists.")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if _, err := h.Stores.Users.GetByPhone(ctx, req.PhoneNumber); err == nil {
		writeError(w, http.StatusBadRequest, "A user with this phone number already exists.")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		PhoneNumber:  req.PhoneNumber,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	if err := h.Stores.Users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "A user with this username or phone number already exists.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles user login and issues a session token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A valid session presented on login is a no-op
	if token := middleware.ExtractBearerToken(r.Header.Get("Authorization")); token != "" {
		if _, ok, _ := h.Sessions.Validate(ctx, token); ok {
			writeJSON(w, http.StatusOK, map[string]string{"message": "You are already logged in."})
			return
		}
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	const invalidCredentials = "Invalid credentials. Please verify your login details or register for a new account."

	user, err := h.Stores.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": invalidCredentials})
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": invalidCredentials})
		return
	}

	token, err := h.Sessions.Create(ctx, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Login successful",
		"token":   token,
	})
}

// Logout invalidates the presented session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := middleware.ExtractBearerToken(r.Header.Get("Authorization"))
	_, ok, _ := h.Sessions.Validate(ctx, token)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "You are already logged out.")
		return
	}

	if err := h.Sessions.Invalidate(ctx, token); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out."})
}
