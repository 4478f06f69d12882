package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"book-catalog/internal/adapter/gin/handler"
	"book-catalog/internal/adapter/gin/middleware"
	"book-catalog/internal/auth"
	"book-catalog/internal/gate"
	"book-catalog/pkg/logger"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Health  *handler.HealthHandler
	User    *handler.UserHandler
	Session *handler.SessionHandler
	Record  *handler.RecordHandler
}

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter may be nil.
func SetupRouter(
	h Handlers,
	authority auth.SessionAuthority,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(rateLimiter.Middleware())
	router.Use(middleware.Identify(authority, log))
	router.Use(middleware.Gate(log))

	router.GET(gate.RootPath, h.Health.Root)
	router.GET(gate.HealthPath, h.Health.Health)

	router.POST(gate.SignUpPath, h.User.Signup)
	router.POST(gate.SignInPath, h.Session.SignIn)
	router.POST("/signout", h.Session.SignOut)
	router.GET("/me", h.User.Me)

	records := router.Group(gate.RecordsPath)
	{
		records.GET("", h.Record.ListRecords)
		records.POST("", h.Record.CreateRecord)
		records.DELETE("/:id", h.Record.DeleteRecord)
	}

	return router
}
