package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the banner and health endpoints
type HealthHandler struct {
	service string
	checks  map[string]HealthCheck
	log     *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. Each check is reported
// under its name, e.g. "database" or "redis".
func NewHealthHandler(service string, checks map[string]HealthCheck, log *zap.Logger) *HealthHandler {
	return &HealthHandler{service: service, checks: checks, log: log}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.service,
		"message": "Welcome to BookCatalog",
	})
}

// Health handles GET /health. Any failing check turns the whole response 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.WithContext(c.Request.Context(), h.log).Error("health check failed",
				zap.String("dependency", name), zap.Error(err))
			results[name] = "down"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	c.JSON(code, gin.H{
		"status":  status,
		"service": h.service,
		"checks":  results,
	})
}
