// Package ban turns repeated rate-limit violations into temporary bans
// and keeps a daily log of them in Redis.
package ban

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikesPrefix  = "ratelimit:strikes:"
	bannedPrefix   = "ratelimit:banned:"
)

type Guard struct {
	rdb     *redis.Client
	strikes int
	banFor  time.Duration
	window  time.Duration
	logger  *slog.Logger
}

// NewGuard bans a target for banFor once it collects maxStrikes
// violations within banFor.
func NewGuard(rdb *redis.Client, maxStrikes int, banFor time.Duration, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{rdb: rdb, strikes: maxStrikes, banFor: banFor, window: banFor, logger: logger}
}

// Banned reports whether target is banned and for how much longer.
func (g *Guard) Banned(ctx context.Context, target string) (bool, time.Duration, error) {
	ttl, err := g.rdb.TTL(ctx, bannedPrefix+target).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl <= 0 {
		return false, 0, nil
	}
	return true, ttl, nil
}

// Strike records one violation by target on route and bans it when the
// limit is reached.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	key := strikesPrefix + target
	n, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		g.rdb.Expire(ctx, key, g.window)
	}
	if int(n) < g.strikes {
		return false, nil
	}

	if err := g.rdb.Set(ctx, bannedPrefix+target, n, g.banFor).Err(); err != nil {
		return false, err
	}
	g.rdb.Del(ctx, key)
	g.logger.Warn("client banned", "target", target, "route", route, "strikes", n, "duration", g.banFor)
	g.logBanEvent(ctx, target, route, int(n))
	return true, nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func (g *Guard) logBanEvent(ctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}
	data, _ := json.Marshal(entry)
	if err := g.rdb.RPush(ctx, DailyBanLogKey, data).Err(); err != nil {
		g.logger.Error("failed to log ban event", "error", err)
	}
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Summary struct {
	Total    int           `json:"total"`
	ByRoute  []Count       `json:"by_route"`
	ByTarget []Count       `json:"by_target"`
	Entries  []BanLogEntry `json:"entries"`
}

// DailySummary reads and clears the ban log.
func (g *Guard) DailySummary(ctx context.Context) (Summary, error) {
	items, err := g.rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Summary{}, err
	}
	if len(items) == 0 {
		return Summary{}, nil
	}
	if err := g.rdb.Del(ctx, DailyBanLogKey).Err(); err != nil {
		return Summary{}, err
	}

	var s Summary
	routes := map[string]int{}
	targets := map[string]int{}
	for _, item := range items {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		s.Entries = append(s.Entries, entry)
		routes[entry.Route]++
		targets[entry.Target]++
	}
	s.Total = len(s.Entries)
	s.ByRoute = counts(routes)
	s.ByTarget = counts(targets)
	return s, nil
}

func counts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// RunDailySummary logs the ban summary every day at 23:59 until ctx ends.
func (g *Guard) RunDailySummary(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(24 * time.Hour)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		s, err := g.DailySummary(ctx)
		if err != nil {
			g.logger.Error("daily ban summary failed", "error", err)
			continue
		}
		if s.Total > 0 {
			g.logger.Info("daily ban summary", "total", s.Total, "by_route", s.ByRoute, "by_target", s.ByTarget)
		}
	}
}
