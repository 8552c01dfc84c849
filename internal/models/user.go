package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Phone number and username are unique across
// the whole service; the phone number is also the join key into contacts and
// spam records.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name         string `json:"name"`
	Username     string `json:"username"`
	PhoneNumber  string `json:"phone_number"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"-"` // Don't return password hash in JSON
}
