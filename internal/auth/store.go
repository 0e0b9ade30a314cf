package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshKeyPrefix is the key shape of a session record. It is part of
// the wire contract: the admin revoke endpoint and any operational
// tooling address sessions by this same prefix plus the user id.
const RefreshKeyPrefix = "REFRESH_TOKEN_"

// SessionStore keeps the single currently-valid refresh token per
// subject in redis, one key per user with the refresh TTL. Expiry is
// delegated entirely to redis; no timer in this process owns a session
// entry. Writes are last-writer-wins, which is what makes refresh
// tokens single-use: the overwrite on rotation invalidates the
// previous token even if it has not expired.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore wraps an already-connected redis client.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(userID uint64) string {
	return RefreshKeyPrefix + strconv.FormatUint(userID, 10)
}

// Set stores the refresh token for a user, unconditionally overwriting
// any previous entry.
func (s *SessionStore) Set(ctx context.Context, userID uint64, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Get returns the stored refresh token for a user. An absent key means
// the user has no active session and yields ErrNoSession; a transport
// failure is returned as-is and must not be mistaken for "no session".
func (s *SessionStore) Get(ctx context.Context, userID uint64) (string, error) {
	v, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	return v, nil
}

// Delete removes the session record for a user. Deleting an absent key
// is not an error, so logout is idempotent.
func (s *SessionStore) Delete(ctx context.Context, userID uint64) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
