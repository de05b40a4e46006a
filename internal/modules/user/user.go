package user

import (
	"errors"
	"fmt"
	"strings"
)

// Role decides which menu and operations a user gets.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrUnknownRole = errors.New("unrecognized user type")
	ErrInvalidCode = errors.New("invalid sign-up code")

	ErrInvalidSignUp = errors.New("name and password are required")
)

// ParseRole normalizes a stored or typed role. The users.type column is
// fixed-width, so all whitespace is dropped first.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.Join(strings.Fields(s), "")); r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// User represents a row of the users table.
type User struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Role         Role    `json:"role"`
}
