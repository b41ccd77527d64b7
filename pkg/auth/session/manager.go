package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"
)

// ErrInvalidRefreshToken signals that a refresh token does not match the
// stored session or the session no longer exists.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

const refreshTokenBytes = 32

// Store is the subset of the redis client used for session bookkeeping.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Keyer builds the storage key for an access session id.
type Keyer interface {
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker reports whether an active session exists for a jti.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// Manager persists refresh tokens keyed by access-token jti so tokens can be
// rotated and revoked server-side.
type Manager struct {
	store Store
	keyer Keyer
	ttl   time.Duration
}

// NewManager wires a session manager over the provided store.
func NewManager(store Store, keyer Keyer, ttl time.Duration) *Manager {
	return &Manager{store: store, keyer: keyer, ttl: ttl}
}

// NewAccessID returns a fresh jti for a newly minted access token.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate creates and stores a refresh token bound to accessID.
func (m *Manager) Generate(ctx context.Context, accessID string) (string, error) {
	if accessID == "" {
		return "", errors.New("access id is required")
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	key := m.keyer.AccessSessionKey(accessID)
	if err := m.store.Set(ctx, key, refreshToken, m.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return refreshToken, nil
}

// Rotate validates the presented refresh token against the old access id,
// revokes it, and issues a new refresh token bound to newAccessID.
func (m *Manager) Rotate(ctx context.Context, oldAccessID, presentedRefreshToken, newAccessID string) (string, error) {
	if oldAccessID == "" || presentedRefreshToken == "" || newAccessID == "" {
		return "", ErrInvalidRefreshToken
	}
	oldKey := m.keyer.AccessSessionKey(oldAccessID)
	stored, err := m.store.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("loading session: %w", err)
	}
	if stored != presentedRefreshToken {
		return "", ErrInvalidRefreshToken
	}
	if err := m.store.Del(ctx, oldKey); err != nil {
		return "", fmt.Errorf("revoking session: %w", err)
	}
	return m.Generate(ctx, newAccessID)
}

// Revoke removes the session for accessID. Missing sessions are not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if accessID == "" {
		return nil
	}
	if err := m.store.Del(ctx, m.keyer.AccessSessionKey(accessID)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// HasSession reports whether an active session exists for accessID.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if accessID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.keyer.AccessSessionKey(accessID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("loading session: %w", err)
	}
	return true, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
