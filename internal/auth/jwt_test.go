package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret-key-for-unit-tests"

func newTestAuthority(t *testing.T, store RevocationStore) *JWTAuthority {
	t.Helper()
	return NewJWTAuthority(testSecret, time.Hour, store, zaptest.NewLogger(t))
}

func TestJWTAuthority_IssueAndVerify(t *testing.T) {
	a := newTestAuthority(t, NewMemoryRevocationStore())
	ctx := context.Background()

	token, issued, err := a.Issue(ctx, "user-1", "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.TokenID)

	id, err := a.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, issued.TokenID, id.TokenID)
	assert.True(t, issued.ExpiresAt.Equal(id.ExpiresAt))
}

func TestJWTAuthority_Verify_Rejects(t *testing.T) {
	a := newTestAuthority(t, nil)
	ctx := context.Background()

	valid, _, err := a.Issue(ctx, "user-1", "a@x.com")
	require.NoError(t, err)

	otherKey := NewJWTAuthority("another-secret-key-entirely", time.Hour, nil, zaptest.NewLogger(t))
	foreign, _, err := otherKey.Issue(ctx, "user-1", "a@x.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "a@x.com",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "jti",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", ID: "jti"},
		Email:            "a@x.com",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"tampered", valid + "x"},
		{"wrong key", foreign},
		{"alg none", noneToken},
		{"missing email", noEmail},
		{"missing expiry", noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := a.Verify(ctx, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, id)
		})
	}
}

func TestJWTAuthority_Verify_Expired(t *testing.T) {
	a := newTestAuthority(t, nil)
	issuedAt := time.Now().Add(-2 * time.Hour)
	a.now = func() time.Time { return issuedAt }

	token, _, err := a.Issue(context.Background(), "user-1", "a@x.com")
	require.NoError(t, err)

	a.now = time.Now
	id, err := a.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, id)
}

func TestJWTAuthority_Revoke(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := newTestAuthority(t, NewRedisRevocationStore(client))
	ctx := context.Background()

	token, _, err := a.Issue(ctx, "user-1", "a@x.com")
	require.NoError(t, err)

	id, err := a.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, a.Revoke(ctx, id))
	assert.True(t, mr.Exists("session:revoked:"+id.TokenID))
	assert.Greater(t, mr.TTL("session:revoked:"+id.TokenID), time.Duration(0))

	again, err := a.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, again)

	// Other sessions of the same user stay valid
	other, _, err := a.Issue(ctx, "user-1", "a@x.com")
	require.NoError(t, err)
	_, err = a.Verify(ctx, other)
	assert.NoError(t, err)
}

func TestJWTAuthority_Verify_FailsClosedWhenStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	a := newTestAuthority(t, NewRedisRevocationStore(client))
	token, _, err := a.Issue(context.Background(), "user-1", "a@x.com")
	require.NoError(t, err)

	mr.Close()

	id, err := a.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, id)
}

func TestJWTAuthority_Revoke_Invalid(t *testing.T) {
	a := newTestAuthority(t, NewMemoryRevocationStore())

	assert.ErrorIs(t, a.Revoke(context.Background(), nil), ErrInvalidToken)
	assert.ErrorIs(t, a.Revoke(context.Background(), &Identity{UserID: "u"}), ErrInvalidToken)

	expired := &Identity{UserID: "u", TokenID: "t", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.NoError(t, a.Revoke(context.Background(), expired))
}

func TestMemoryRevocationStore_Expiry(t *testing.T) {
	s := NewMemoryRevocationStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = s.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}
