package client

import (
	"errors"
	"net/mail"
)

var ErrInvalidEmail = errors.New("invalid email address")

// ValidateEmail checks the address before it is sent. The server stores
// whatever it receives, so this is the only format check.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.Join(ErrInvalidEmail, errors.New("email address is required"))
	}
	if len(email) > 254 {
		return errors.Join(ErrInvalidEmail, errors.New("email address is too long (max 254 characters)"))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}
