// Package session signs users in and out.
package session

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"book-catalog/internal/auth"
	domain "book-catalog/internal/domain/user"
	"book-catalog/internal/usecase/user"
	"book-catalog/internal/usecase/validation"
	apperrors "book-catalog/pkg/errors"
	"book-catalog/pkg/logger"
	"book-catalog/pkg/security"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
var ErrInvalidCredentials = apperrors.NewUnauthenticatedError("invalid email or password")

// CredentialStore looks up users together with their password hash.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Usecase issues and revokes session tokens.
type Usecase struct {
	users     CredentialStore
	hasher    *security.PasswordHasher
	authority auth.SessionAuthority
	log       *zap.Logger
	validate  *validator.Validate
}

// New creates a new instance of Usecase. users must return password hashes,
// so it is the persistent repository rather than the cached one.
func New(users CredentialStore, hasher *security.PasswordHasher, authority auth.SessionAuthority, log *zap.Logger) *Usecase {
	return &Usecase{
		users:     users,
		hasher:    hasher,
		authority: authority,
		log:       log,
		validate:  validation.New(),
	}
}

// SignIn verifies the credentials and issues a session token.
func (uc *Usecase) SignIn(ctx context.Context, in SignInRequest) (*SignInResponse, error) {
	in.Email = security.NormalizeEmail(in.Email)
	log := logger.WithContext(ctx, uc.log)

	if err := validation.Struct(uc.validate, in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	u, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to load user for sign-in", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to load user", err)
	}
	if u == nil {
		log.Warn("sign-in for unknown email", zap.String("email", in.Email))
		return nil, ErrInvalidCredentials
	}

	if err := uc.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			log.Warn("sign-in with wrong password", zap.String("user_id", u.ID))
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to verify password", zap.String("user_id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to verify password", err)
	}

	token, id, err := uc.authority.Issue(ctx, u.ID, u.Email)
	if err != nil {
		log.Error("failed to issue session token", zap.String("user_id", u.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to issue session token", err)
	}

	log.Info("user signed in", zap.String("user_id", u.ID))
	return &SignInResponse{
		Token:     token,
		ExpiresAt: id.ExpiresAt,
		User: user.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		},
	}, nil
}

// SignOut revokes the caller's session token.
func (uc *Usecase) SignOut(ctx context.Context, id *auth.Identity) error {
	if id == nil {
		return apperrors.ErrUnauthenticated
	}

	if err := uc.authority.Revoke(ctx, id); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return apperrors.ErrUnauthenticated
		}
		logger.WithContext(ctx, uc.log).Error("failed to revoke session", zap.String("user_id", id.UserID), zap.Error(err))
		return apperrors.NewInternalError("failed to revoke session", err)
	}
	return nil
}
