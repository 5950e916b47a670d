package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionManager issues opaque bearer tokens backed by Redis. Each token maps
// to the authenticated admin's user id and expires after the configured TTL.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{client: client, ttl: ttl}
}

// Create stores a new session and returns its token.
func (sm *SessionManager) Create(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	if err := sm.client.Set(ctx, sm.key(token), strconv.FormatInt(userID, 10), sm.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id for a token, refreshing its TTL.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrUnauthorized
	}
	val, err := sm.client.Get(ctx, sm.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrUnauthorized
		}
		return 0, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrUnauthorized
	}
	_ = sm.client.Expire(ctx, sm.key(token), sm.ttl).Err()
	return userID, nil
}

// Destroy removes a session token.
func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return sm.client.Del(ctx, sm.key(token)).Err()
}

func (sm *SessionManager) key(token string) string {
	return "session:" + token
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
