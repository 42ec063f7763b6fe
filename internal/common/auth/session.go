package auth

import (
	"context"
	"errors"
	"fmt"

	"livest/internal/common/database"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session")
)

// SessionStore resolves a session token into its Principal.
type SessionStore interface {
	Lookup(ctx context.Context, token string) (*Principal, error)
}

// RedisSessionStore reads sessions stored as JSON under <prefix><token>.
type RedisSessionStore struct {
	redis  *database.RedisClient
	prefix string
}

func NewRedisSessionStore(redis *database.RedisClient, prefix string) *RedisSessionStore {
	return &RedisSessionStore{redis: redis, prefix: prefix}
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (*Principal, error) {
	var p Principal
	err := s.redis.GetJSON(ctx, s.prefix+token, &p)
	if errors.Is(err, database.ErrCacheMiss) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if p.UserID == "" || !p.Role.Valid() {
		return nil, ErrInvalidSession
	}
	return &p, nil
}
