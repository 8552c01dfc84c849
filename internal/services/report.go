package services

import (
	"context"
	"errors"

	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

// ReportService runs the spam-reporting workflow.
type ReportService struct {
	Stores *store.Stores
}

func NewReportService(stores *store.Stores) *ReportService {
	return &ReportService{Stores: stores}
}

// Report marks a phone number as spam on behalf of the reporter.
//
// The contact lookup is deliberately global: any owner's contact with the
// number gets the spam flag, and only when no contact exists anywhere is an
// anonymous one created under the reporter. The three writes (contact flag,
// aggregate count, reporter history) are independent; a failure in a later
// step does not undo an earlier one.
func (s *ReportService) Report(ctx context.Context, reporter *models.User, phoneNumber string) error {
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return err
	}

	// A user may never mark their own number as spam.
	owner, err := s.Stores.Users.GetByPhone(ctx, phoneNumber)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if owner != nil && owner.ID == reporter.ID {
		return ErrSelfReport
	}

	contact, err := s.Stores.Contacts.FirstByPhone(ctx, phoneNumber)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		contact = &models.Contact{
			OwnerID:     reporter.ID,
			Name:        "Anonymous",
			PhoneNumber: phoneNumber,
			IsSpam:      true,
			IsAnonymous: true,
		}
		if err := s.Stores.Contacts.Create(ctx, contact); err != nil {
			return err
		}
	} else {
		contact.IsSpam = true
		if err := s.Stores.Contacts.Update(ctx, contact); err != nil {
			return err
		}
	}

	if err := s.Stores.Spam.IncrementReport(ctx, phoneNumber); err != nil {
		return err
	}
	return s.Stores.Spam.IncrementReporter(ctx, reporter.ID, phoneNumber)
}
