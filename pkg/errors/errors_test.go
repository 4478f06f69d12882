package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "title", Message: "title is required"},
		{Field: "genre", Message: "genre must be at most 50 characters"},
	}}

	assert.Equal(t, "validation failed: title is required, genre must be at most 50 characters", err.Error())
	assert.True(t, err.HasField("title"))
	assert.True(t, err.HasField("genre"))
	assert.False(t, err.HasField("author"))
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}

func TestAsHTTPStatuser(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"duplicate user", ErrDuplicateUser, http.StatusBadRequest, "already_exists"},
		{"validation", NewValidationError("email", "email is required"), http.StatusBadRequest, "validation_error"},
		{"internal", NewInternalError("boom", stderrors.New("db down")), http.StatusInternalServerError, "internal_error"},
		{"wrapped", fmt.Errorf("delete record: %w", ErrForbidden), http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := AsHTTPStatuser(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.status, s.HTTPStatus())
			assert.Equal(t, tt.code, s.Code())
		})
	}

	_, ok := AsHTTPStatuser(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewInternalError("failed to list records", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list records: connection refused", err.Error())
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", ErrUserNotFound)))
	assert.True(t, IsAlreadyExists(ErrDuplicateUser))
	assert.True(t, IsUnauthenticated(ErrUnauthenticated))
	assert.True(t, IsForbidden(ErrForbidden))
	assert.False(t, IsForbidden(ErrUnauthenticated))

	v, ok := AsValidation(fmt.Errorf("signup: %w", NewValidationError("name", "name is required")))
	require.True(t, ok)
	assert.True(t, v.HasField("name"))
}
