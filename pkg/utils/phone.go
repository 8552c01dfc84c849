package utils

import (
	"errors"
	"regexp"
)

// phoneRegex accepts an optional leading +, an optional literal 1, then 9-15 digits.
var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ErrInvalidPhoneNumber is returned everywhere a phone number fails format
// validation. The message is user-facing and must stay distinct from
// not-found errors.
var ErrInvalidPhoneNumber = errors.New("Invalid phone number format. Please use the format: '+999999999' or '999999999'.")

// ValidatePhoneNumber checks a raw phone number against the accepted pattern.
func ValidatePhoneNumber(phoneNumber string) error {
	if !phoneRegex.MatchString(phoneNumber) {
		return ErrInvalidPhoneNumber
	}
	return nil
}
