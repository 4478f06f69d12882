package auth

import "time"

// Identity is the per-request assertion of who is calling.
type Identity struct {
	UserID    string
	Email     string
	TokenID   string    // TokenID is the session token's jti, used for sign-out
	ExpiresAt time.Time // ExpiresAt is when the session token stops being valid
}
