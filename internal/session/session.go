// Package session issues and validates login sessions. A session is a signed
// JWT carrying the user identifier, admin flag, a unique token ID, and an
// absolute expiry, backed by a Redis record keyed on the token ID so logout
// actually revokes it. Expiry is checked lazily on each authenticate call;
// nothing sweeps sessions proactively (the Redis TTL handles cleanup).
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Token IDs
	"github.com/redis/go-redis/v9" // Redis client
)

// ErrUnauthenticated reports a missing, malformed, expired, or revoked session
// token. Callers get no further detail.
var ErrUnauthenticated = errors.New("session: unauthenticated")

// Claims carried by a session token.
type Claims struct {
	UserID  uint `json:"user_id"`  // Authenticated user
	IsAdmin bool `json:"is_admin"` // Admin flag at login time
	jwt.RegisteredClaims
}

// Identity is the result of a successful session check.
type Identity struct {
	UserID  uint   // Authenticated user
	IsAdmin bool   // Admin flag at login time
	TokenID string // Session token ID, used for revocation
}

// Manager mints, validates, and revokes session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

// NewManager constructs a Manager with the given signing secret and absolute
// session lifetime.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb}
}

func sessionKey(tokenID string) string {
	return "session:" + tokenID
}

// Issue mints a signed token for the user and records the session in Redis
// with the same absolute lifetime.
func (m *Manager) Issue(ctx context.Context, userID uint, isAdmin bool) (string, error) {
	tokenID := uuid.NewString()
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}
	if err := m.rdb.Set(ctx, sessionKey(tokenID), userID, m.ttl).Err(); err != nil {
		return "", err
	}
	return signed, nil
}

// Authenticate validates a token and returns the identity it carries. A token
// that fails signature or expiry checks, or whose Redis record is gone (logged
// out or lifetime elapsed), yields ErrUnauthenticated.
func (m *Manager) Authenticate(ctx context.Context, tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	n, err := m.rdb.Exists(ctx, sessionKey(claims.ID)).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUnauthenticated
	}
	return &Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin, TokenID: claims.ID}, nil
}

// Revoke invalidates the session record. Revoking an unknown or already
// revoked token is a no-op.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	return m.rdb.Del(ctx, sessionKey(tokenID)).Err()
}
