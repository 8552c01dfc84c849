package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a phone-book entry owned by exactly one user. The phone number
// does not have to belong to any registered user. At most one contact exists
// per (owner, phone number) pair.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"-"`

	OwnerID     uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	IsSpam      bool      `json:"is_spam"`
	IsAnonymous bool      `json:"is_anonymous"` // true when auto-created by a spam report
}
