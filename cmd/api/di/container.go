package di

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"book-catalog/cmd/api/infrastructure"
	"book-catalog/internal/adapter/cache"
	"book-catalog/internal/adapter/db/postgres"
	"book-catalog/internal/adapter/gin/handler"
	"book-catalog/internal/adapter/gin/middleware"
	"book-catalog/internal/adapter/gin/router"
	"book-catalog/internal/adapter/repository/cached"
	"book-catalog/internal/auth"
	"book-catalog/internal/config"
	"book-catalog/internal/usecase/record"
	"book-catalog/internal/usecase/session"
	"book-catalog/internal/usecase/user"
	redisclient "book-catalog/pkg/redis"
	"book-catalog/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil when Redis is disabled
	Authority   auth.SessionAuthority
	UserUC      *user.Usecase
	RecordUC    *record.Usecase
	SessionUC   *session.Usecase
	RateLimiter *middleware.RateLimiter
	Router      *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{Config: cfg, Logger: l, DB: db}

	// Initialize Redis client; nil when disabled
	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	// Initialize repositories, with the cache layer when Redis is available
	dbUserRepo := postgres.NewUserRepoPG(db, l)
	recordRepo := postgres.NewRecordRepoPG(db, l)

	var userCache cache.UserCache
	var revocations auth.RevocationStore
	if c.RedisClient != nil {
		userCache = cache.NewRedisUserCache(
			c.RedisClient.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		revocations = auth.NewRedisRevocationStore(c.RedisClient.Client)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}
	userRepo := cached.NewCachedUserRepository(dbUserRepo, userCache, l)

	// Initialize session authority
	c.Authority = auth.NewJWTAuthority(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
		revocations,
		l,
	)

	// Initialize use cases; sign-in reads password hashes, which the cache never holds
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	c.UserUC = user.New(userRepo, hasher, l)
	c.RecordUC = record.New(recordRepo, userRepo, l)
	c.SessionUC = session.New(dbUserRepo, hasher, c.Authority, l)

	// Initialize rate limiter
	if c.RedisClient != nil {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				Enabled:           cfg.RateLimit.Enabled,
			},
			l,
		)
	}

	// Initialize HTTP layer
	sqlDB, err := db.DB()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	checks := map[string]handler.HealthCheck{"database": sqlDB.PingContext}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Ping
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	c.Router = router.SetupRouter(
		router.Handlers{
			Health:  handler.NewHealthHandler(cfg.Logger.ServiceName, checks, l),
			User:    handler.NewUserHandler(c.UserUC, l),
			Session: handler.NewSessionHandler(c.SessionUC, l, cfg.Env == "production"),
			Record:  handler.NewRecordHandler(c.RecordUC, l),
		},
		c.Authority,
		c.RateLimiter,
		l,
	)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
