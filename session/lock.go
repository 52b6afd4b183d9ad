package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errors.New("lock wait timeout")

// 只刪自己持有的鎖
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker 跨行程的互斥鎖（SET NX + TTL），實作 loans.Locker
type Locker struct {
	rdb   redis.Cmdable
	ttl   time.Duration // 持有者當掉時自動釋放
	wait  time.Duration
	retry time.Duration
}

func NewLocker(rdb redis.Cmdable, ttl, wait time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl, wait: wait, retry: 50 * time.Millisecond}
}

func lockKey(key string) string { return fmt.Sprintf("line:lock:%s", key) }

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	k := lockKey(key)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				if err := unlockScript.Run(context.Background(), l.rdb, []string{k}, token).Err(); err != nil {
					slog.Warn("unlock failed", "key", k, "err", err)
				}
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}
