package record

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"book-catalog/internal/auth"
	domain "book-catalog/internal/domain/record"
	userdomain "book-catalog/internal/domain/user"
	apperrors "book-catalog/pkg/errors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, r *domain.Record) (*domain.Record, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Record, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.User), args.Error(1)
}

var (
	ann   = &auth.Identity{UserID: "u-ann", Email: "a@x.com"}
	bob   = &auth.Identity{UserID: "u-bob", Email: "b@x.com"}
	fixed = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository, *MockUserLookup) {
	repo := new(MockRepository)
	users := new(MockUserLookup)
	uc := New(repo, users, zaptest.NewLogger(t))
	uc.now = func() time.Time { return fixed }
	return uc, repo, users
}

// ==================== LIST TESTS ====================

func TestList_RequiresIdentity(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)

	got, err := uc.List(context.Background(), nil)

	assert.Nil(t, got)
	assert.True(t, apperrors.IsUnauthenticated(err))
	repo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
}

func TestList_ScopedToCaller(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("ListByOwner", ctx, "u-ann").Return([]domain.Record{
		{ID: "r2", Title: "Emma", OwnerID: "u-ann", Owner: domain.Owner{Name: "Ann", Email: "a@x.com"}, CreatedAt: fixed},
		{ID: "r1", Title: "Dune", OwnerID: "u-ann", Owner: domain.Owner{Name: "Ann", Email: "a@x.com"}, CreatedAt: fixed.Add(-time.Hour)},
	}, nil)

	got, err := uc.List(ctx, ann)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)
	assert.Equal(t, "Ann", got[0].Owner.Name)
	assert.Equal(t, "a@x.com", got[0].Owner.Email)
	repo.AssertExpectations(t)
}

func TestList_Empty(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("ListByOwner", ctx, "u-bob").Return([]domain.Record{}, nil)

	got, err := uc.List(ctx, bob)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_StoreFailure(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("ListByOwner", ctx, "u-ann").Return(nil, errors.New("timeout"))

	_, err := uc.List(ctx, ann)

	var ierr *apperrors.InternalError
	assert.ErrorAs(t, err, &ierr)
}

// ==================== CREATE TESTS ====================

func TestCreate_Success(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "a@x.com").Return(&userdomain.User{ID: "u-ann", Name: "Ann", Email: "a@x.com"}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(r *domain.Record) bool {
		return r.Title == "Dune" && r.Author == "Herbert" && r.Genre == "Fiction" &&
			r.OwnerID == "u-ann" && r.Owner.Name == "Ann" && r.CreatedAt.Equal(fixed)
	})).Return(&domain.Record{
		ID: "r1", Title: "Dune", Author: "Herbert", Genre: "Fiction",
		OwnerID: "u-ann", Owner: domain.Owner{Name: "Ann", Email: "a@x.com"}, CreatedAt: fixed,
	}, nil)

	got, err := uc.Create(ctx, ann, CreateRecordRequest{Title: " Dune ", Author: "Herbert", Genre: "Fiction\n"})

	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "u-ann", got.OwnerID)
	assert.Equal(t, Owner{Name: "Ann", Email: "a@x.com"}, got.Owner)
	repo.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestCreate_RequiresIdentity(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)

	_, err := uc.Create(context.Background(), nil, CreateRecordRequest{Title: "Dune", Author: "Herbert", Genre: "Fiction"})

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestCreate_ValidationErrors(t *testing.T) {
	valid := CreateRecordRequest{Title: "Dune", Author: "Herbert", Genre: "Fiction"}

	tests := []struct {
		name   string
		mutate func(r *CreateRecordRequest)
		fields []string
	}{
		{"empty title", func(r *CreateRecordRequest) { r.Title = "" }, []string{"title"}},
		{"whitespace title", func(r *CreateRecordRequest) { r.Title = "   " }, []string{"title"}},
		{"title 101", func(r *CreateRecordRequest) { r.Title = strings.Repeat("t", 101) }, []string{"title"}},
		{"author 101", func(r *CreateRecordRequest) { r.Author = strings.Repeat("a", 101) }, []string{"author"}},
		{"genre 51", func(r *CreateRecordRequest) { r.Genre = strings.Repeat("g", 51) }, []string{"genre"}},
		{"all empty", func(r *CreateRecordRequest) { *r = CreateRecordRequest{} }, []string{"title", "author", "genre"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, users := setupTestUsecase(t)
			req := valid
			tt.mutate(&req)

			_, err := uc.Create(context.Background(), ann, req)

			verr, ok := apperrors.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			got := make([]string, len(verr.Fields))
			for i, f := range verr.Fields {
				got[i] = f.Field
			}
			assert.Equal(t, tt.fields, got)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_BoundaryLengthsAccepted(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "a@x.com").Return(&userdomain.User{ID: "u-ann", Name: "Ann", Email: "a@x.com"}, nil)
	repo.On("Create", ctx, mock.Anything).Return(&domain.Record{ID: "r1", OwnerID: "u-ann"}, nil)

	_, err := uc.Create(ctx, ann, CreateRecordRequest{
		Title:  strings.Repeat("t", 100),
		Author: strings.Repeat("a", 100),
		Genre:  strings.Repeat("g", 50),
	})
	assert.NoError(t, err)
}

func TestCreate_OwnerMissing(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()
	users.On("GetByEmail", ctx, "a@x.com").Return(nil, nil)

	_, err := uc.Create(ctx, ann, CreateRecordRequest{Title: "Dune", Author: "Herbert", Genre: "Fiction"})

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_StoreFailure(t *testing.T) {
	uc, repo, users := setupTestUsecase(t)
	ctx := context.Background()
	users.On("GetByEmail", ctx, "a@x.com").Return(&userdomain.User{ID: "u-ann"}, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("constraint failed"))

	_, err := uc.Create(ctx, ann, CreateRecordRequest{Title: "Dune", Author: "Herbert", Genre: "Fiction"})

	var ierr *apperrors.InternalError
	assert.ErrorAs(t, err, &ierr)
}

// ==================== DELETE TESTS ====================

func TestDelete_Success(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()

	repo.On("GetByID", ctx, "r1").Return(&domain.Record{ID: "r1", OwnerID: "u-ann"}, nil)
	repo.On("Delete", ctx, "r1", "u-ann").Return(true, nil)

	got, err := uc.Delete(ctx, ann, "r1")

	require.NoError(t, err)
	assert.Equal(t, &DeleteRecordResponse{Message: DeletedMessage, ID: "r1"}, got)
	repo.AssertExpectations(t)
}

func TestDelete_RequiresIdentity(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)

	_, err := uc.Delete(context.Background(), nil, "r1")

	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("GetByID", ctx, "missing").Return(nil, nil)

	_, err := uc.Delete(ctx, ann, "missing")
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)

	_, err = uc.Delete(ctx, ann, "  ")
	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)

	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_ForbiddenBeforeDelete(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("GetByID", ctx, "r1").Return(&domain.Record{ID: "r1", OwnerID: "u-ann"}, nil)

	_, err := uc.Delete(ctx, bob, "r1")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.True(t, apperrors.IsForbidden(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_VanishedConcurrently(t *testing.T) {
	uc, repo, _ := setupTestUsecase(t)
	ctx := context.Background()
	repo.On("GetByID", ctx, "r1").Return(&domain.Record{ID: "r1", OwnerID: "u-ann"}, nil)
	repo.On("Delete", ctx, "r1", "u-ann").Return(false, nil)

	_, err := uc.Delete(ctx, ann, "r1")

	assert.ErrorIs(t, err, apperrors.ErrRecordNotFound)
}

func TestDelete_StoreFailures(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("GetByID", ctx, "r1").Return(nil, errors.New("timeout"))

		_, err := uc.Delete(ctx, ann, "r1")

		var ierr *apperrors.InternalError
		assert.ErrorAs(t, err, &ierr)
	})

	t.Run("delete", func(t *testing.T) {
		uc, repo, _ := setupTestUsecase(t)
		ctx := context.Background()
		repo.On("GetByID", ctx, "r1").Return(&domain.Record{ID: "r1", OwnerID: "u-ann"}, nil)
		repo.On("Delete", ctx, "r1", "u-ann").Return(false, errors.New("timeout"))

		_, err := uc.Delete(ctx, ann, "r1")

		var ierr *apperrors.InternalError
		assert.ErrorAs(t, err, &ierr)
	})
}
