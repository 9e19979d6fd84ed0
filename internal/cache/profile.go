// Package cache holds the optional Redis-backed company profile cache. A nil
// *ProfileCache is valid and behaves as a miss on every call, so the service
// layer never branches on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/domain"
)

// DefaultTTL keeps profiles fresh enough that a stale aggregate is only ever
// visible briefly; every write path also invalidates explicitly.
const DefaultTTL = 60 * time.Second

// ProfileCache caches company profiles (company + stats) by company ID.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProfileCache creates a profile cache on the given Redis client.
func NewProfileCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProfileCache{client: client, ttl: ttl, logger: logger}
}

func profileKey(companyID string) string {
	return "company:profile:" + companyID
}

// Get returns the cached profile, or (nil, false) on a miss or any Redis
// error. Cache failures are logged and never surface to the caller.
func (c *ProfileCache) Get(ctx context.Context, companyID string) (*domain.CompanyProfile, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, profileKey(companyID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "profile cache get failed",
				slog.String("company_id", companyID),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var profile domain.CompanyProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		c.logger.WarnContext(ctx, "profile cache entry corrupt, dropping",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
		_ = c.client.Del(ctx, profileKey(companyID)).Err()
		return nil, false
	}

	return &profile, true
}

// Set stores the profile with the configured TTL. Best effort.
func (c *ProfileCache) Set(ctx context.Context, companyID string, profile *domain.CompanyProfile) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(profile)
	if err != nil {
		c.logger.WarnContext(ctx, "profile cache marshal failed",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := c.client.Set(ctx, profileKey(companyID), data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "profile cache set failed",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached profile after a write to the company's reviews.
func (c *ProfileCache) Invalidate(ctx context.Context, companyID string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, profileKey(companyID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "profile cache invalidate failed",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
	}
}
