package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// RevocationStore remembers signed-out session ids until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// RedisRevocationStore keeps one expiring key per revoked session.
type RedisRevocationStore struct {
	client redis.Cmdable
}

// NewRedisRevocationStore wraps client.
func NewRedisRevocationStore(client redis.Cmdable) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke marks id as revoked until the given time.
func (s *RedisRevocationStore) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+id, 1, ttl).Err()
}

// IsRevoked reports whether id was signed out.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
