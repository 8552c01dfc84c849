package services

import "errors"

// Business-rule failures surfaced to handlers. Messages are user-facing and
// are written into the error response body as-is.
var (
	ErrSelfReport       = errors.New("You are not allowed to mark your own number as spam.")
	ErrDuplicateContact = errors.New("A contact with this phone number already exists.")
	ErrNotYours         = errors.New("The requested object does not belong to you.")
	ErrContactNotFound  = errors.New("Contact not found.")
	ErrNoResults        = errors.New("No contacts found.")
)
