package services

import (
	"context"
	"errors"

	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/store"
)

// SearchResult is one entry in a reputation query response. Email is only
// set when the disclosure rule allows it; the key is omitted entirely
// otherwise.
type SearchResult struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	SpamCount   int    `json:"spam_count"`
	Email       string `json:"email,omitempty"`
}

// SearchService merges users and contacts into one result list, keyed and
// deduplicated by phone number, with spam counts attached.
type SearchService struct {
	Stores *store.Stores
}

func NewSearchService(stores *store.Stores) *SearchService {
	return &SearchService{Stores: stores}
}

// ByName returns every user whose display name contains the query followed
// by every contact whose name matches, skipping contacts whose phone number
// was already emitted for a user. A user result carries the user's email
// when the requester has that number saved as a contact.
func (s *SearchService) ByName(ctx context.Context, requester *models.User, query string) ([]SearchResult, error) {
	results := make([]SearchResult, 0)
	addedPhoneNumbers := make(map[string]bool)

	users, err := s.Stores.Users.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if addedPhoneNumbers[user.PhoneNumber] {
			continue
		}

		spamCount, err := store.SpamCount(ctx, s.Stores.Spam, user.PhoneNumber)
		if err != nil {
			return nil, err
		}

		info := SearchResult{
			Name:        user.Name,
			PhoneNumber: user.PhoneNumber,
			SpamCount:   spamCount,
		}

		disclosed, err := s.discloseEmail(ctx, requester, &user)
		if err != nil {
			return nil, err
		}
		if disclosed {
			info.Email = user.Email
		}

		results = append(results, info)
		addedPhoneNumbers[user.PhoneNumber] = true
	}

	contacts, err := s.Stores.Contacts.SearchByName(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, contact := range contacts {
		if addedPhoneNumbers[contact.PhoneNumber] {
			continue
		}

		spamCount, err := store.SpamCount(ctx, s.Stores.Spam, contact.PhoneNumber)
		if err != nil {
			return nil, err
		}

		results = append(results, SearchResult{
			Name:        contact.Name,
			PhoneNumber: contact.PhoneNumber,
			SpamCount:   spamCount,
		})
		addedPhoneNumbers[contact.PhoneNumber] = true
	}

	return results, nil
}

// ByPhone returns the registered user owning the number, or else every
// contact entry with that number across all owners. For the user result the
// disclosure check is against the requester's own contacts; for contact
// results it is reciprocal: the contact's owner must have the requester's
// number saved, and it is the owner's email that is revealed.
func (s *SearchService) ByPhone(ctx context.Context, requester *models.User, phoneNumber string) ([]SearchResult, error) {
	results := make([]SearchResult, 0)

	spamCount, err := store.SpamCount(ctx, s.Stores.Spam, phoneNumber)
	if err != nil {
		return nil, err
	}

	user, err := s.Stores.Users.GetByPhone(ctx, phoneNumber)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if user != nil {
		info := SearchResult{
			Name:        user.Name,
			PhoneNumber: user.PhoneNumber,
			SpamCount:   spamCount,
		}

		disclosed, err := s.discloseEmail(ctx, requester, user)
		if err != nil {
			return nil, err
		}
		if disclosed {
			info.Email = user.Email
		}

		return append(results, info), nil
	}

	contacts, err := s.Stores.Contacts.ListByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	for _, contact := range contacts {
		info := SearchResult{
			Name:        contact.Name,
			PhoneNumber: contact.PhoneNumber,
			SpamCount:   spamCount,
		}

		ownerSavedRequester, err := s.Stores.Contacts.OwnerHasPhone(ctx, contact.OwnerID, requester.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if ownerSavedRequester {
			ownerUser, err := s.Stores.Users.GetByID(ctx, contact.OwnerID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			if ownerUser != nil && ownerUser.Email != "" {
				info.Email = ownerUser.Email
			}
		}

		results = append(results, info)
	}

	if len(results) == 0 {
		return nil, ErrNoResults
	}

	return results, nil
}

// discloseEmail applies the standard disclosure rule: the requester must
// have the subject's phone number saved as a contact, and the subject must
// have a non-empty email.
func (s *SearchService) discloseEmail(ctx context.Context, requester, subject *models.User) (bool, error) {
	if subject.Email == "" {
		return false, nil
	}
	return s.Stores.Contacts.OwnerHasPhone(ctx, requester.ID, subject.PhoneNumber)
}
