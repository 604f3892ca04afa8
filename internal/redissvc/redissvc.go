// Package redissvc wraps the shared Redis client and owns the session
// revocation keys.
package redissvc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "sabiboss:session:revoked:"

type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

// Revoke marks a session id as signed out until it would have expired anyway.
func (s *RedisService) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedPrefix+sessionID, 1, ttl).Err()
}

func (s *RedisService) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+sessionID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
