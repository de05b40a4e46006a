package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	SignUp(ctx context.Context, req SignUpRequest) (*User, error)
	GetUser(ctx context.Context, id int) (*User, error)
}

// SignUpRequest holds data for creating a user. Code is required for the
// manager and admin roles.
type SignUpRequest struct {
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Role      Role    `json:"role"`
	Code      string  `json:"code,omitempty"`
}

// SignupCodes are the shared secrets that unlock privileged sign-up.
// An empty code disables sign-up for that role.
type SignupCodes struct {
	Manager string
	Admin   string
}
