package user

import "time"

// SignupRequest represents the request payload for creating a new account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// User represents a user DTO (Data Transfer Object) for API responses.
// It never carries the password hash.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
