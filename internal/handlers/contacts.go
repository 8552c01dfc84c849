package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/services"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

// CreateContactRequest is the contact creation payload.
type CreateContactRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	IsSpam      bool   `json:"is_spam"`
}

// UpdateContactRequest is a partial update; nil fields are left unchanged.
type UpdateContactRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	IsSpam      *bool   `json:"is_spam"`
}

// ListContacts returns the requester's own contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	contacts, err := h.Stores.Contacts.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// CreateContact adds a contact to the requester's phone book
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.PhoneNumber == "" {
		writeError(w, http.StatusBadRequest, "Phone number is required")
		return
	}
	if err := utils.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact := &models.Contact{
		OwnerID:     user.ID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		IsSpam:      req.IsSpam,
	}

	if err := h.Stores.Contacts.Create(r.Context(), contact); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, services.ErrDuplicateContact.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// getOwnedContact resolves {contactID} and enforces ownership for every
// method, GET included: contacts are only readable through search.
func (h *Handler) getOwnedContact(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Contact, bool) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, services.ErrContactNotFound.Error())
		return nil, false
	}

	contact, err := h.Stores.Contacts.GetByID(r.Context(), contactID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, services.ErrContactNotFound.Error())
		} else {
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}

	if contact.OwnerID != user.ID {
		writeError(w, http.StatusBadRequest, services.ErrNotYours.Error())
		return nil, false
	}

	return contact, true
}

// GetContact returns one of the requester's contacts by id
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	contact, ok := h.getOwnedContact(w, r, user)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// UpdateContact partially updates one of the requester's contacts
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	contact, ok := h.getOwnedContact(w, r, user)
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		if err := utils.ValidatePhoneNumber(*req.PhoneNumber); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		contact.PhoneNumber = *req.PhoneNumber
	}
	if req.IsSpam != nil {
		contact.IsSpam = *req.IsSpam
	}

	if err := h.Stores.Contacts.Update(r.Context(), contact); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, services.ErrDuplicateContact.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// DeleteContact removes one of the requester's contacts
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	contact, ok := h.getOwnedContact(w, r, user)
	if !ok {
		return
	}

	if err := h.Stores.Contacts.Delete(r.Context(), contact.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
