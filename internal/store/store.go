// Package store defines the persistence interfaces for users, contacts and
// spam records, with a PostgreSQL backend for the server and an in-memory
// backend for tests and local runs.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spamlookup/spamlookup-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert or update would violate a
	// uniqueness constraint (username, phone number, or (owner, phone) pair).
	ErrDuplicate = errors.New("record already exists")
)

// UserStore holds registered accounts. Users are never deleted here;
// list-returning methods iterate in creation order.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	// SearchByName returns users whose display name contains the query,
	// case-insensitively, in creation order.
	SearchByName(ctx context.Context, query string) ([]models.User, error)
}

// ContactStore holds per-owner phone-book entries.
type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error)
	// FirstByPhone returns the oldest contact with the phone number across
	// all owners, or ErrNotFound.
	FirstByPhone(ctx context.Context, phoneNumber string) (*models.Contact, error)
	// ListByPhone returns every contact with the phone number across all
	// owners, in creation order.
	ListByPhone(ctx context.Context, phoneNumber string) ([]models.Contact, error)
	// SearchByName returns contacts whose name starts with or contains the
	// query, case-insensitively, in creation order.
	SearchByName(ctx context.Context, query string) ([]models.Contact, error)
	// OwnerHasPhone reports whether the owner has any contact with the
	// phone number.
	OwnerHasPhone(ctx context.Context, ownerID uuid.UUID, phoneNumber string) (bool, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SpamStore holds the global per-phone aggregate and the per-(reporter, phone)
// history. Both increments must be atomic per record: two concurrent reports
// for the same number may interleave, but neither increment may be lost.
type SpamStore interface {
	// IncrementReport bumps the aggregate for the phone number by one,
	// creating the record on first report.
	IncrementReport(ctx context.Context, phoneNumber string) error
	// IncrementReporter bumps the (reporter, phone) history by one, creating
	// the record on first report.
	IncrementReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) error
	GetReport(ctx context.Context, phoneNumber string) (*models.SpamReport, error)
	GetReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) (*models.SpamReporter, error)
}

// Stores bundles the three stores behind one handle.
type Stores struct {
	Users    UserStore
	Contacts ContactStore
	Spam     SpamStore
}

// SpamCount returns the aggregate count for a phone number, 0 when the
// number was never reported.
func SpamCount(ctx context.Context, spam SpamStore, phoneNumber string) (int, error) {
	report, err := spam.GetReport(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return report.SpamCount, nil
}
