package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/auth"
	"book-catalog/pkg/logger"
)

// SessionCookie is the cookie consulted when no Authorization header is sent.
const SessionCookie = "session_token"

const identityKey = "identity"

// Identify resolves the caller's identity from the session token, if any, and
// stores it on the context. It never rejects a request; that is the gate's job.
func Identify(authority auth.SessionAuthority, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		id, err := authority.Verify(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Debug("ignoring invalid session token", zap.Error(err))
			c.Next()
			return
		}

		SetIdentity(c, id)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), id.UserID))
		c.Next()
	}
}

// SetIdentity attaches an identity to the request context.
func SetIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity resolved by Identify, or nil.
func IdentityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*auth.Identity)
	return id
}

// bearerToken prefers an Authorization Bearer token. Any other header value,
// such as Basic credentials, falls back to the session cookie.
func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
