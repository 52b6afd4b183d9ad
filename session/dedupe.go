// session/dedupe.go
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper 依 webhookEventId 擋掉 LINE 的重送
type Deduper struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewDeduper(rdb redis.Cmdable, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// FirstSeen 第一次看到回傳 true。沒有 ID 或 Redis 出錯時一律放行
func (d *Deduper) FirstSeen(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return true
	}
	ok, err := d.rdb.SetNX(ctx, "line:event:"+eventID, "1", d.ttl).Result()
	if err != nil {
		slog.Warn("event dedupe failed", "event", eventID, "err", err)
		return true
	}
	return ok
}
