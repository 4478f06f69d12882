package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"

	"book-catalog/cmd/api/di"
	"book-catalog/cmd/api/server"
	"book-catalog/internal/config"
	"book-catalog/pkg/logger"
)

// App ties configuration, dependencies and the HTTP server together.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New loads configuration from CONFIG_PATH (default ".") and wires every
// dependency. Nothing is listening yet when it returns.
func New() (*App, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	container, err := di.NewContainer(cfg, l)
	if err != nil {
		_ = l.Sync()
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container.Router),
		Container: container,
	}, nil
}

// Run serves until ctx is canceled or the server fails, then shuts down.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("application panic: %v", r)
		}
	}()

	a.Logger.Info("starting BookCatalog",
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.Env),
		zap.String("db_driver", a.Config.DB.Driver),
		zap.Bool("redis", a.Config.Redis.Enabled),
		zap.Bool("rate_limit", a.Container.RateLimiter != nil && a.Config.RateLimit.Enabled),
	)

	serveErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				serveErr <- fmt.Errorf("server panic: %v", r)
			}
		}()
		serveErr <- a.Server.Start()
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown requested")
		return a.shutdown()
	case err := <-serveErr:
		if err == nil {
			err = http.ErrServerClosed
		}
		return errors.Join(fmt.Errorf("server error: %w", err), a.shutdown())
	}
}

// shutdown stops accepting requests, waits for in-flight ones up to the
// configured timeout, then releases Redis and the database pool.
func (a *App) shutdown() error {
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error
	if a.Server != nil && a.Server.HTTP != nil {
		if err := a.Server.HTTP.Shutdown(ctx); err != nil {
			a.Logger.Error("failed to drain HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if a.Container != nil {
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to release resources", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("shutdown complete")

	// Syncing a terminal or pipe fails with EINVAL or ENOTTY, which is harmless
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}
