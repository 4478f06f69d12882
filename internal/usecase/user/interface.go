package user

import "context"

// Service defines the interface for account business logic operations.
type Service interface {
	Signup(ctx context.Context, in SignupRequest) (*User, error)
	GetProfile(ctx context.Context, email string) (*User, error)
}
