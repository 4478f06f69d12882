package record

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"book-catalog/internal/auth"
	domain "book-catalog/internal/domain/record"
	userdomain "book-catalog/internal/domain/user"
	"book-catalog/internal/usecase/validation"
	apperrors "book-catalog/pkg/errors"
	"book-catalog/pkg/logger"
	"book-catalog/pkg/security"
)

// DeletedMessage is the confirmation returned after a successful delete.
const DeletedMessage = "Book deleted successfully"

// Repository defines the interface for record data access operations.
type Repository interface {
	Create(ctx context.Context, r *domain.Record) (*domain.Record, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error) // (nil, nil) when absent
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Record, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error) // false when nothing matched
}

// UserLookup resolves the stored user behind an identity.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// Usecase implements the resource access rules for book records:
// callers only ever see and delete their own records.
type Usecase struct {
	repo     Repository
	users    UserLookup
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

var _ Service = (*Usecase)(nil)

// New creates a new instance of Usecase.
func New(r Repository, users UserLookup, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:     r,
		users:    users,
		log:      log,
		validate: validation.New(),
		now:      time.Now,
	}
}

// List returns the caller's records, newest first.
func (uc *Usecase) List(ctx context.Context, id *auth.Identity) ([]Record, error) {
	if id == nil || id.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	log := logger.WithContext(ctx, uc.log)

	records, err := uc.repo.ListByOwner(ctx, id.UserID)
	if err != nil {
		log.Error("failed to list records", zap.String("owner_id", id.UserID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list records", err)
	}

	out := make([]Record, len(records))
	for i := range records {
		out[i] = *toDTO(&records[i])
	}
	return out, nil
}

// Create validates and stores a new record owned by the caller.
func (uc *Usecase) Create(ctx context.Context, id *auth.Identity, in CreateRecordRequest) (*Record, error) {
	if id == nil || id.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	log := logger.WithContext(ctx, uc.log)

	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Genre = strings.TrimSpace(in.Genre)

	if err := validation.Struct(uc.validate, in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	owner, err := uc.users.GetByEmail(ctx, security.NormalizeEmail(id.Email))
	if err != nil {
		log.Error("failed to resolve record owner", zap.String("email", id.Email), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to resolve record owner", err)
	}
	if owner == nil {
		log.Warn("identity has no stored user", zap.String("email", id.Email))
		return nil, apperrors.ErrUserNotFound
	}

	created, err := uc.repo.Create(ctx, &domain.Record{
		Title:     in.Title,
		Author:    in.Author,
		Genre:     in.Genre,
		OwnerID:   owner.ID,
		Owner:     domain.Owner{Name: owner.Name, Email: owner.Email},
		CreatedAt: uc.now().UTC(),
	})
	if err != nil {
		log.Error("failed to create record", zap.String("owner_id", owner.ID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create record", err)
	}

	log.Info("record created", zap.String("id", created.ID), zap.String("owner_id", created.OwnerID))
	return toDTO(created), nil
}

// Delete removes one of the caller's records. Ownership is checked before
// anything is deleted.
func (uc *Usecase) Delete(ctx context.Context, id *auth.Identity, recordID string) (*DeleteRecordResponse, error) {
	if id == nil || id.UserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	log := logger.WithContext(ctx, uc.log)

	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, apperrors.ErrRecordNotFound
	}

	rec, err := uc.repo.GetByID(ctx, recordID)
	if err != nil {
		log.Error("failed to get record", zap.String("id", recordID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get record", err)
	}
	if rec == nil {
		return nil, apperrors.ErrRecordNotFound
	}

	if !rec.OwnedBy(id.UserID) {
		log.Warn("delete rejected, caller is not the owner",
			zap.String("id", recordID), zap.String("owner_id", rec.OwnerID), zap.String("caller_id", id.UserID))
		return nil, apperrors.ErrForbidden
	}

	deleted, err := uc.repo.Delete(ctx, recordID, id.UserID)
	if err != nil {
		log.Error("failed to delete record", zap.String("id", recordID), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to delete record", err)
	}
	if !deleted {
		// Removed concurrently between the lookup and the delete
		return nil, apperrors.ErrRecordNotFound
	}

	log.Info("record deleted", zap.String("id", recordID))
	return &DeleteRecordResponse{Message: DeletedMessage, ID: recordID}, nil
}

func toDTO(r *domain.Record) *Record {
	return &Record{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Genre:     r.Genre,
		OwnerID:   r.OwnerID,
		Owner:     Owner{Name: r.Owner.Name, Email: r.Owner.Email},
		CreatedAt: r.CreatedAt,
	}
}
