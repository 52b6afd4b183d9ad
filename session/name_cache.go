package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"Gin_postgres_redis_line_bot/loans"

	"github.com/redis/go-redis/v9"
)

// NameCache 在 Redis 快取 LINE 顯示名稱，未命中才呼叫 next
type NameCache struct {
	rdb  redis.Cmdable
	next loans.ProfileLookup
	ttl  time.Duration
}

func NewNameCache(rdb redis.Cmdable, next loans.ProfileLookup, ttl time.Duration) *NameCache {
	return &NameCache{rdb: rdb, next: next, ttl: ttl}
}

func nameKey(uid string) string { return fmt.Sprintf("line:name:%s", uid) }

func (c *NameCache) DisplayName(ctx context.Context, userID string) (string, error) {
	name, err := c.rdb.Get(ctx, nameKey(userID)).Result()
	switch {
	case err == nil && name != "":
		return name, nil
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("name cache read failed", "user", userID, "err", err)
	}

	name, err = c.next.DisplayName(ctx, userID)
	if err != nil {
		return "", err
	}
	if name != "" {
		// 寫不進去也不影響回覆
		if err := c.rdb.Set(ctx, nameKey(userID), name, c.ttl).Err(); err != nil {
			slog.Warn("name cache write failed", "user", userID, "err", err)
		}
	}
	return name, nil
}

// Forget 清掉某使用者的快取
func (c *NameCache) Forget(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, nameKey(userID)).Err()
}
