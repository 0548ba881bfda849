// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package limiter provides admission control for generation requests: a
// windowed request rate limiter and a monthly token budget gate. Counters
// live behind an explicit CounterStore interface rather than module state,
// so any atomic-increment store can back them.
package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore increments a named counter inside a fixed window and reports
// the new count plus when the window resets. The first increment of a window
// starts it.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// counterKeyPrefix namespaces limiter keys in the shared Valkey instance.
const counterKeyPrefix = "ratelimit:"

// RedisCounterStore backs counters with Valkey INCR + TTL windows.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a counter store on the given Valkey client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Increment bumps the counter, starting the window TTL on the first hit.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	full := counterKeyPrefix + key

	count, err := s.client.Incr(ctx, full).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("counter incr: %w", err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, full, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("counter expire: %w", err)
		}
	}

	ttl, err := s.client.TTL(ctx, full).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("counter ttl: %w", err)
	}
	if ttl <= 0 {
		// Key lost its TTL (e.g. Valkey restarted mid-window). Re-arm it so
		// the counter cannot live forever.
		ttl = window
		if err := s.client.Expire(ctx, full, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("counter re-expire: %w", err)
		}
	}

	return count, time.Now().Add(ttl), nil
}

// MemoryCounterStore is an in-process CounterStore for tests and local
// development without Valkey. Windows are fixed, not sliding.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
	now      func() time.Time
}

type memoryCounter struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounterStore creates an empty in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*memoryCounter),
		now:      time.Now,
	}
}

// Increment bumps the in-memory counter, expiring it lazily.
func (s *MemoryCounterStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c, ok := s.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &memoryCounter{resetAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, c.resetAt, nil
}
