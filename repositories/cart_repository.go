package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisCartSlots holds each identity's cart as one JSON value in a Redis
// key, the durable counterpart of the browser-local cart slot.
type RedisCartSlots struct {
	client *redis.Client
}

func NewRedisCartSlots(client *redis.Client) *RedisCartSlots {
	return &RedisCartSlots{client: client}
}

func (r *RedisCartSlots) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisCartSlots) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisCartSlots) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// MemoryCartSlots is the fallback when Redis is unavailable, and the store
// used by tests. Carts survive the process only.
type MemoryCartSlots struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryCartSlots() *MemoryCartSlots {
	return &MemoryCartSlots{data: make(map[string]string)}
}

func (m *MemoryCartSlots) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *MemoryCartSlots) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryCartSlots) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
