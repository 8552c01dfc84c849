package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhoneNumber(t *testing.T) {
	valid := []string{
		"+1234567890",
		"1234567890",
		"123456789",
		"+999999999",
		"999999999",
		"+1123456789012345",
		"123456789012345",
	}
	for _, phone := range valid {
		assert.NoError(t, ValidatePhoneNumber(phone), "expected %q to be valid", phone)
	}

	invalid := []string{
		"",
		"12345678",        // too few digits
		"+12345678",       // too few digits after optional 1
		"12345678901234567890", // too many digits
		"++1234567890",    // multiple plus signs
		"+12345abcde",     // letters
		"phone number",
		"123-456-7890",    // separators not accepted
		"1234567890+",     // plus must lead
	}
	for _, phone := range invalid {
		err := ValidatePhoneNumber(phone)
		assert.ErrorIs(t, err, ErrInvalidPhoneNumber, "expected %q to be invalid", phone)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotContains(t, hash, "password123")

	ok, err := VerifyPassword("password123", hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("password123", "not-a-hash")
	assert.Error(t, err)
}
