package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/adapter/gin/middleware"
	"book-catalog/internal/usecase/session"
	apperrors "book-catalog/pkg/errors"
)

// SessionHandler handles sign-in and sign-out
type SessionHandler struct {
	uc           session.Service
	log          *zap.Logger
	secureCookie bool
}

// NewSessionHandler creates a new SessionHandler instance. secureCookie marks
// the session cookie as HTTPS-only.
func NewSessionHandler(uc session.Service, log *zap.Logger, secureCookie bool) *SessionHandler {
	return &SessionHandler{uc: uc, log: log, secureCookie: secureCookie}
}

// SignInRequest represents the HTTP request body for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse represents the HTTP response carrying a session token
type SignInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SignIn handles POST /signin
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}

	resp, err := h.uc.SignIn(c.Request.Context(), session.SignInRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, resp.Token, maxAge, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, SignInResponse{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User:      toUserResponse(&resp.User),
	})
}

// SignOut handles POST /signout
func (h *SessionHandler) SignOut(c *gin.Context) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		handleError(c, h.log, apperrors.ErrUnauthenticated)
		return
	}

	if err := h.uc.SignOut(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Signed out"})
}
