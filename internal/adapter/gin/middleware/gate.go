package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/gate"
	"book-catalog/pkg/logger"
)

// Gate applies the request gate after Identify has run.
func Gate(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := IdentityFrom(c) != nil
		if gate.Decide(c.Request.URL.Path, c.Request.Method, authenticated) == gate.Allow {
			c.Next()
			return
		}

		logger.WithContext(c.Request.Context(), log).Debug("request denied by gate",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
}
