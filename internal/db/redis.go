package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/openbudget/adpilot/internal/models"
)

// RedisCache caches the latest metric snapshot per campaign so that
// allocation requests do not hit the metrics store for every campaign.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// InitRedis initializes a Redis client and returns a RedisCache.
func InitRedis(addr string, ttl time.Duration) (*RedisCache, error) {
	rc := &RedisCache{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		TTL:    ttl,
	}

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(rc.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rc.Client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rc, nil
}

func latestKey(campaignID string) string {
	return fmt.Sprintf("metrics:latest:%s", campaignID)
}

// SetLatest caches the latest snapshot for its campaign with the cache TTL.
func (r *RedisCache) SetLatest(ctx context.Context, snap models.MetricSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.Client.Set(ctx, latestKey(snap.CampaignID), payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("cache latest snapshot: %w", err)
	}
	return nil
}

// GetLatest returns the cached latest snapshot for a campaign. The boolean is
// false on a cache miss.
func (r *RedisCache) GetLatest(ctx context.Context, campaignID string) (models.MetricSnapshot, bool, error) {
	payload, err := r.Client.Get(ctx, latestKey(campaignID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.MetricSnapshot{}, false, nil
	}
	if err != nil {
		return models.MetricSnapshot{}, false, fmt.Errorf("read latest snapshot: %w", err)
	}
	var snap models.MetricSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return models.MetricSnapshot{}, false, fmt.Errorf("decode latest snapshot: %w", err)
	}
	return snap, true, nil
}

// Close shuts down the Redis client.
func (r *RedisCache) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
