package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/libreshelf/libreshelf-backend/pkg/config"
	redisclient "github.com/libreshelf/libreshelf-backend/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a session ID with no live server-side record.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager creates and revokes the Redis records backing session cookies.
// The cookie itself carries a signed token whose jti is the session ID; a
// session is live only while its record exists here.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create stores a new session record for the user and returns its session ID.
func (m *Manager) Create(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("user id is required")
	}
	sessionID := NewSessionID()
	key := m.keyer.SessionKey(sessionID)
	if err := m.store.Set(ctx, key, strconv.FormatInt(userID, 10), m.ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

// HasSession reports whether the session ID still has a live record.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UserID resolves the user bound to the session record.
func (m *Manager) UserID(ctx context.Context, sessionID string) (int64, error) {
	if strings.TrimSpace(sessionID) == "" {
		return 0, fmt.Errorf("session id is required")
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session record: %w", err)
	}
	return id, nil
}

// Revoke deletes the session record, logging the user out everywhere the
// cookie is presented.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// NewSessionID produces a stable identifier used as the token jti/Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
