// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// brand.go provides a Valkey-backed brand profile cache. Every generation
// request starts from the tenant's brand snapshot, so caching it skips the
// widest query on the hot path. Writes to the profile invalidate the entry.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

const (
	// brandKeyPrefix is the Valkey key prefix for cached brand profiles.
	brandKeyPrefix = "brand:"

	// DefaultBrandTTL is how long a brand profile stays cached.
	DefaultBrandTTL = 5 * time.Minute
)

// BrandCache manages brand profile caching in Valkey. All errors degrade to
// cache misses; the store remains the source of truth.
type BrandCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBrandCache creates a brand cache backed by the given Valkey client.
func NewBrandCache(client *redis.Client, ttl time.Duration) *BrandCache {
	if ttl == 0 {
		ttl = DefaultBrandTTL
	}
	return &BrandCache{client: client, ttl: ttl}
}

// Get retrieves a cached brand profile for a tenant. Returns false on miss
// or any decode problem.
func (bc *BrandCache) Get(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, bool) {
	raw, err := bc.client.Get(ctx, brandKeyPrefix+tenantID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("brand cache get error", "tenant", tenantID, "error", err)
		return nil, false
	}

	var brand models.BrandProfile
	if err := json.Unmarshal(raw, &brand); err != nil {
		slog.Warn("brand cache decode error", "tenant", tenantID, "error", err)
		bc.Invalidate(ctx, tenantID)
		return nil, false
	}
	slog.Debug("brand cache hit", "tenant", tenantID)
	return &brand, true
}

// Set stores a tenant's brand profile with the configured TTL.
func (bc *BrandCache) Set(ctx context.Context, tenantID uuid.UUID, brand *models.BrandProfile) {
	raw, err := json.Marshal(brand)
	if err != nil {
		slog.Warn("brand cache encode error", "tenant", tenantID, "error", err)
		return
	}
	if err := bc.client.Set(ctx, brandKeyPrefix+tenantID.String(), raw, bc.ttl).Err(); err != nil {
		slog.Warn("brand cache set error", "tenant", tenantID, "error", err)
	}
}

// Invalidate removes a tenant's cached brand profile. Called after every
// brand profile write.
func (bc *BrandCache) Invalidate(ctx context.Context, tenantID uuid.UUID) {
	if err := bc.client.Del(ctx, brandKeyPrefix+tenantID.String()).Err(); err != nil {
		slog.Warn("brand cache invalidate error", "tenant", tenantID, "error", err)
	}
}
