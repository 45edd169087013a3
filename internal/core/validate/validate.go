// Package validate provides shared validation functions for user input.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
)

// Required validates a value is non-empty after trimming whitespace.
func Required(label, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", label)
	}
	return nil
}

// Identifier validates a login identifier. Identifiers containing "@" must be a
// well-formed email address; anything else is treated as a username.
func Identifier(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("email or username is required")
	}
	if strings.Contains(id, "@") {
		return Email(id)
	}
	return nil
}

// Email validates a bare email address.
func Email(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

// Password validates a password is present. Strength rules belong to the server.
func Password(pw string) error {
	if pw == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// NewPassword validates a password chosen at registration.
func NewPassword(pw string) error {
	if err := Password(pw); err != nil {
		return err
	}
	if len(pw) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// Price validates a non-negative price.
func Price(p float64) error {
	if p < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}
