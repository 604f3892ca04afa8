package ban

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T, strikes int) (*Guard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewGuard(rdb, strikes, time.Minute, nil), mr
}

func TestStrikeBansAfterLimit(t *testing.T) {
	ctx := context.Background()
	g, mr := newGuard(t, 3)

	for i := 0; i < 2; i++ {
		banned, err := g.Strike(ctx, "10.0.0.1", "/login")
		require.NoError(t, err)
		assert.False(t, banned)
	}
	banned, _, err := g.Banned(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, banned)

	banned, err = g.Strike(ctx, "10.0.0.1", "/login")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, ttl, err := g.Banned(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, banned)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(2 * time.Minute)
	banned, _, err = g.Banned(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestDailySummaryAggregatesAndClears(t *testing.T) {
	ctx := context.Background()
	g, mr := newGuard(t, 1)

	_, _ = g.Strike(ctx, "a", "/login")
	_, _ = g.Strike(ctx, "b", "/login")
	_, _ = g.Strike(ctx, "a", "/signup")

	s, err := g.DailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, []Count{{Key: "/login", Count: 2}, {Key: "/signup", Count: 1}}, s.ByRoute)
	assert.Equal(t, []Count{{Key: "a", Count: 2}, {Key: "b", Count: 1}}, s.ByTarget)
	assert.False(t, mr.Exists(DailyBanLogKey))

	empty, err := g.DailySummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}
