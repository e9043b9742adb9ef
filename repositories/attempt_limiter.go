package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAttemptLimiter counts hits per key in a fixed window, backing the
// password-gate lockout.
type RedisAttemptLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRedisAttemptLimiter(client *redis.Client, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client, window: window}
}

func (l *RedisAttemptLimiter) Hit(ctx context.Context, key string) (int, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		l.client.Expire(ctx, key, l.window)
	}
	return int(count), nil
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}

// MemoryAttemptLimiter is the in-process fallback when Redis is unavailable.
type MemoryAttemptLimiter struct {
	mu     sync.Mutex
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	count   int
	expires time.Time
}

func NewMemoryAttemptLimiter(window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{window: window, counts: make(map[string]*windowCount)}
}

func (l *MemoryAttemptLimiter) Hit(ctx context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	wc, ok := l.counts[key]
	if !ok || now.After(wc.expires) {
		wc = &windowCount{expires: now.Add(l.window)}
		l.counts[key] = wc
	}
	wc.count++
	return wc.count, nil
}

func (l *MemoryAttemptLimiter) Reset(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, key)
	return nil
}
