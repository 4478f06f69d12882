package session

import (
	"context"

	"book-catalog/internal/auth"
)

// Service defines sign-in and sign-out.
type Service interface {
	SignIn(ctx context.Context, in SignInRequest) (*SignInResponse, error)
	SignOut(ctx context.Context, id *auth.Identity) error
}

var _ Service = (*Usecase)(nil)
