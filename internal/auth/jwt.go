package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any token that does not yield an identity.
var ErrInvalidToken = errors.New("invalid session token")

// SessionAuthority issues session tokens and resolves them back into identities.
type SessionAuthority interface {
	Issue(ctx context.Context, userID, email string) (string, *Identity, error)
	Verify(ctx context.Context, token string) (*Identity, error)
	Revoke(ctx context.Context, id *Identity) error
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTAuthority is a SessionAuthority backed by HS256-signed JWTs.
type JWTAuthority struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	log     *zap.Logger
	now     func() time.Time
}

// NewJWTAuthority creates a JWTAuthority. Revoked token ids are tracked in store.
func NewJWTAuthority(secret string, ttl time.Duration, store RevocationStore, log *zap.Logger) *JWTAuthority {
	return &JWTAuthority{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: store,
		log:     log,
		now:     time.Now,
	}
}

// Issue signs a new session token for the user.
func (a *JWTAuthority) Issue(ctx context.Context, userID, email string) (string, *Identity, error) {
	now := a.now()
	id := &Identity{
		UserID:    userID,
		Email:     email,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(a.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        id.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
		},
		Email: email,
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	// Report the expiry as encoded, NumericDate drops sub-second precision
	id.ExpiresAt = time.Unix(id.ExpiresAt.Unix(), 0)

	a.log.Debug("session token issued", zap.String("user_id", userID), zap.String("jti", id.TokenID))
	return signed, id, nil
}

// Verify parses and validates a session token and checks it has not been revoked.
func (a *JWTAuthority) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Email == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject, email or id", ErrInvalidToken)
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Fail closed: a token whose status is unknown is not trusted
			a.log.Error("failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
			return nil, fmt.Errorf("%w: revocation check failed", ErrInvalidToken)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", ErrInvalidToken)
		}
	}

	return &Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the identity's token for the rest of its lifetime.
func (a *JWTAuthority) Revoke(ctx context.Context, id *Identity) error {
	if id == nil || id.TokenID == "" {
		return ErrInvalidToken
	}
	if a.revoked == nil {
		return errors.New("token revocation is not configured")
	}

	remaining := id.ExpiresAt.Sub(a.now())
	if remaining <= 0 {
		return nil
	}

	if err := a.revoked.Revoke(ctx, id.TokenID, remaining); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}

	a.log.Info("session token revoked", zap.String("user_id", id.UserID), zap.String("jti", id.TokenID))
	return nil
}
