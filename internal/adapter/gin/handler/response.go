package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/usecase/record"
	"book-catalog/internal/usecase/user"
	apperrors "book-catalog/pkg/errors"
	"book-catalog/pkg/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message,omitempty"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnerResponse is the owner view embedded in every record
type OwnerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecordResponse represents the HTTP response for a book record
type RecordResponse struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	Genre     string        `json:"genre"`
	CreatedAt time.Time     `json:"created_at"`
	User      OwnerResponse `json:"user"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

const internalErrorMessage = "An internal error occurred"

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toRecordResponse(r *record.Record) RecordResponse {
	return RecordResponse{
		ID:        r.ID,
		Title:     r.Title,
		Author:    r.Author,
		Genre:     r.Genre,
		CreatedAt: r.CreatedAt,
		User:      OwnerResponse{Name: r.Owner.Name, Email: r.Owner.Email},
	}
}

// badRequest answers a body that could not be decoded at all.
func badRequest(c *gin.Context, log *zap.Logger, err error) {
	logger.WithContext(c.Request.Context(), log).Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "invalid request body",
	})
}

// handleError maps application errors onto HTTP responses. Anything that is
// not a client error is logged and answered with a generic 500.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	if s, ok := apperrors.AsHTTPStatuser(err); ok && s.HTTPStatus() < http.StatusInternalServerError {
		resp := ErrorResponse{Error: s.Code(), Message: s.Error()}
		if v, ok := apperrors.AsValidation(err); ok {
			resp.Details = v.Fields
		}
		c.JSON(s.HTTPStatus(), resp)
		return
	}

	logger.WithContext(c.Request.Context(), log).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: internalErrorMessage,
	})
}
