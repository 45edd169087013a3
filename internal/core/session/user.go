// Package session owns the authenticated user and access token of the current
// client, and propagates the token to outbound API requests.
package session

import (
	"errors"
	"strings"

	"github.com/hay-kot/skillshop/internal/core/ident"
)

// User is the identity record returned by the auth endpoints.
type User struct {
	ID        ident.ID `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName,omitempty"`
	Email     string   `json:"email,omitempty"`
	IsAdmin   bool     `json:"isAdmin"`
}

// DisplayName returns the best available human name for the user.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	switch {
	case name != "":
		return name
	case u.Email != "":
		return u.Email
	default:
		return "user " + u.ID.String()
	}
}

// Role returns "admin" or "student".
func (u User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "student"
}

func (u User) validate() error {
	if u.ID.IsZero() {
		return errors.New("user id is required")
	}
	return nil
}

// Credentials is the login request body.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AuthResponse is returned by both login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
