// Package session caches ServeRest login tokens per e-mail so scenarios can
// reuse an administrator login instead of authenticating every time.
package session

import (
	"context"
	"sync"
	"time"

	"serverest-suite/internal/common/database"
)

// TokenCache stores bearer tokens keyed by e-mail.
type TokenCache interface {
	Get(ctx context.Context, email string) (string, bool, error)
	Put(ctx context.Context, email, token string) error
	Invalidate(ctx context.Context, email string) error
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryCache is the default process-local cache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, email string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[email]
	if !ok {
		return "", false, nil
	}
	if m.now().After(e.expires) {
		delete(m.entries, email)
		return "", false, nil
	}
	return e.token, true, nil
}

func (m *MemoryCache) Put(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[email] = memoryEntry{token: token, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Invalidate(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, email)
	return nil
}

const redisKeyPrefix = "serverest-suite:token:"

// RedisCache shares tokens between runner processes.
type RedisCache struct {
	client *database.RedisClient
	ttl    time.Duration
}

func NewRedisCache(client *database.RedisClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, email string) (string, bool, error) {
	return r.client.Get(ctx, redisKeyPrefix+email)
}

func (r *RedisCache) Put(ctx context.Context, email, token string) error {
	return r.client.Set(ctx, redisKeyPrefix+email, token, r.ttl)
}

func (r *RedisCache) Invalidate(ctx context.Context, email string) error {
	return r.client.Del(ctx, redisKeyPrefix+email)
}
