package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spamlookup/spamlookup-backend/internal/middleware"
	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/services"
	"github.com/spamlookup/spamlookup-backend/internal/store"
)

// Handler carries the stores and services behind all HTTP endpoints.
type Handler struct {
	Stores   *store.Stores
	Sessions services.SessionManager
	Reports  *services.ReportService
	Searcher *services.SearchService
}

func New(stores *store.Stores, sessions services.SessionManager) *Handler {
	return &Handler{
		Stores:   stores,
		Sessions: sessions,
		Reports:  services.NewReportService(stores),
		Searcher: services.NewSearchService(stores),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a business/validation failure as {"error": msg}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDetail writes an auth/throttle failure as {"detail": msg}.
func writeDetail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}

// requireUser resolves the acting user from the bearer session token. The
// unauthenticated message depends on whether any session artifact was
// presented at all: no Authorization header means the client likely never
// registered, a stale or invalid token means they need to log in again.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		writeDetail(w, http.StatusUnauthorized, "Please register an account")
		return nil, false
	}

	token := middleware.ExtractBearerToken(header)
	userID, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		writeDetail(w, http.StatusUnauthorized, "You are not logged in. Please login.")
		return nil, false
	}

	user, err := h.Stores.Users.GetByID(r.Context(), userID)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "You are not logged in. Please login.")
		return nil, false
	}
	return user, true
}
