package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/adapter/gin/middleware"
	"book-catalog/internal/usecase/user"
	apperrors "book-catalog/pkg/errors"
)

// UserHandler handles HTTP requests for account operations
type UserHandler struct {
	uc  user.Service
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// SignupRequest represents the HTTP request body for creating an account
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse represents the HTTP response after creating an account
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// Signup handles POST /signup
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}

	resp, err := h.uc.Signup(c.Request.Context(), user.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, SignupResponse{
		Message: "User created successfully",
		User:    toUserResponse(resp),
	})
}

// Me handles GET /me
func (h *UserHandler) Me(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		handleError(c, h.log, apperrors.ErrUnauthenticated)
		return
	}

	resp, err := h.uc.GetProfile(c.Request.Context(), id.Email)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(resp))
}
