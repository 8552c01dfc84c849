package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spamlookup/spamlookup-backend/internal/services"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

type ReportSpamRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// ReportSpam marks a phone number as spam on behalf of the requester
func (h *Handler) ReportSpam(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req ReportSpamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "Phone number is required")
		return
	}

	if err := h.Reports.Report(r.Context(), user, req.PhoneNumber); err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidPhoneNumber), errors.Is(err, services.ErrSelfReport):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Marked as spam"})
}
