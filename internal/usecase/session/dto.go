package session

import (
	"time"

	"book-catalog/internal/usecase/user"
)

// SignInRequest represents the credentials presented at sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=100"`
}

// SignInResponse carries a freshly issued session token.
type SignInResponse struct {
	Token     string
	ExpiresAt time.Time
	User      user.User
}
