package handlers

import (
	"errors"
	"net/http"

	"github.com/spamlookup/spamlookup-backend/internal/services"
)

// Search handles reputation queries by name fragment or exact phone number.
// When both parameters are supplied, name mode wins.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("query")
	phoneNumber := r.URL.Query().Get("phone_number")

	if query == "" && phoneNumber == "" {
		writeError(w, http.StatusBadRequest, "At least one search query is required")
		return
	}

	var (
		results []services.SearchResult
		err     error
	)
	if query != "" {
		results, err = h.Searcher.ByName(r.Context(), user, query)
	} else {
		results, err = h.Searcher.ByPhone(r.Context(), user, phoneNumber)
	}

	if err != nil {
		if errors.Is(err, services.ErrNoResults) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, results)
}
