package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"book-catalog/internal/adapter/cache"
	domain "book-catalog/internal/domain/user"
)

// UserStore is the persistent user repository being cached.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CachedUserRepository wraps a persistent user store with a cache-aside layer
// on email lookups. Users returned from it never carry a password hash.
type CachedUserRepository struct {
	dbRepo UserStore
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache disables caching but keeps single-flight de-duplication.
func NewCachedUserRepository(dbRepo UserStore, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create persists the user and primes the cache with it.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created, err := r.dbRepo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, created); err != nil {
			r.log.Warn("failed to cache created user", zap.String("id", created.ID), zap.Error(err))
		}
	}

	return withoutHash(created), nil
}

// GetByID delegates to the DB repository.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.dbRepo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return withoutHash(u), nil
}

// GetByEmail retrieves a user by email using the cache-aside pattern.
// Missing users are not cached.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.cache != nil {
		cachedUser, err := r.cache.Get(ctx, email)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("email", email), zap.Error(err))
		} else if cachedUser != nil {
			return cachedUser, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede.
	// The flight outlives any single caller, so it must not inherit one caller's cancellation.
	flightCtx := context.WithoutCancel(ctx)
	result, err, shared := r.group.Do("user:email:"+email, func() (any, error) {
		u, err := r.dbRepo.GetByEmail(flightCtx, email)
		if err != nil || u == nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(flightCtx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("id", u.ID), zap.Error(err))
			}
		}

		return withoutHash(u), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.log.Debug("user lookup shared with concurrent caller", zap.String("email", email))
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	// Callers may hold the shared pointer concurrently
	cp := *u
	return &cp, nil
}

func withoutHash(u *domain.User) *domain.User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
