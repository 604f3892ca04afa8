package redissvc

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisService(rdb), mr
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	svc, mr := newService(t)

	revoked, err := svc.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, "s1", time.Now().Add(time.Minute)))
	revoked, err = svc.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = svc.IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_AlreadyExpiredIsNoop(t *testing.T) {
	ctx := context.Background()
	svc, mr := newService(t)

	require.NoError(t, svc.Revoke(ctx, "s2", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists(revokedPrefix+"s2"))
}
