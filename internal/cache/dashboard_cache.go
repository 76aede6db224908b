package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"
	"github.com/rafdmrs/Faelist-todo-App/internal/repo"

	"github.com/redis/go-redis/v9"
)

const (
	keyStatsPrefix     = "dash:stats:"
	keyFirstPagePrefix = "dash:page1:"
)

// CachedPage is the default first page of an owner's todos (no search, no
// filters) together with the total collection size.
type CachedPage struct {
	Items []dom.Todo `json:"items"`
	Total int64      `json:"total"`
}

// CachedStats mirrors the repo aggregate pair the stats engine works from.
type CachedStats struct {
	Current repo.Counts `json:"current"`
	Prior   repo.Counts `json:"prior"`
}

// DashboardCache caches per-user dashboard reads in Redis: the stats
// aggregates and the unfiltered first page. Everything is invalidated on any
// write by that user.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDashboardCache returns a new DashboardCache.
func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

// GetStats returns cached aggregates or nil on miss.
func (c *DashboardCache) GetStats(ctx context.Context, userID int64) (*CachedStats, error) {
	b, err := c.rdb.Get(ctx, keyStatsPrefix+userKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s CachedStats
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetStats stores the aggregates.
func (c *DashboardCache) SetStats(ctx context.Context, userID int64, s CachedStats) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyStatsPrefix+userKey(userID), b, c.ttl).Err()
}

// GetFirstPage returns the cached default first page or nil on miss.
func (c *DashboardCache) GetFirstPage(ctx context.Context, userID int64) (*CachedPage, error) {
	b, err := c.rdb.Get(ctx, keyFirstPagePrefix+userKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p CachedPage
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetFirstPage stores the default first page.
func (c *DashboardCache) SetFirstPage(ctx context.Context, userID int64, p CachedPage) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyFirstPagePrefix+userKey(userID), b, c.ttl).Err()
}

// Invalidate removes the user's dashboard keys (cache invalidation on write).
func (c *DashboardCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, keyStatsPrefix+userKey(userID), keyFirstPagePrefix+userKey(userID)).Err()
}

func userKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
