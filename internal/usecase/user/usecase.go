package user

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "book-catalog/internal/domain/user"
	"book-catalog/internal/usecase/validation"
	apperrors "book-catalog/pkg/errors"
	"book-catalog/pkg/security"
)

// Repository defines the interface for user data access operations.
// Lookups return (nil, nil) when no user matches.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)  // Create a new user
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email
}

// Usecase implements account creation and profile lookup.
type Usecase struct {
	repo     Repository
	hasher   *security.PasswordHasher
	log      *zap.Logger
	validate *validator.Validate
}

var _ Service = (*Usecase)(nil)

// New creates a new instance of Usecase.
func New(r Repository, hasher *security.PasswordHasher, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, hasher: hasher, log: log, validate: validation.New()}
}

// Signup validates the request, rejects duplicate emails and stores the new user
// with a bcrypt hash of the password.
func (uc *Usecase) Signup(ctx context.Context, in SignupRequest) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = security.NormalizeEmail(in.Email)

	uc.log.Info("signing up user", zap.String("email", in.Email))

	if err := validation.Struct(uc.validate, in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.ErrDuplicateUser
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	created, err := uc.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index settles signups racing past the pre-check
		if errors.Is(err, apperrors.ErrDuplicateUser) {
			uc.log.Warn("email already exists", zap.String("email", in.Email))
			return nil, apperrors.ErrDuplicateUser
		}
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}

	uc.log.Info("user signed up", zap.String("id", created.ID))
	return toDTO(created), nil
}

// GetProfile returns the public profile of the user with the given email.
func (uc *Usecase) GetProfile(ctx context.Context, email string) (*User, error) {
	email = security.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.ErrUserNotFound
	}

	u, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.log.Error("failed to get user", zap.String("email", email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return toDTO(u), nil
}

func toDTO(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
