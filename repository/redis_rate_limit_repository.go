package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"otp-verify/config"
	"otp-verify/entity"
	"otp-verify/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitRepository implements send-window tracking using Redis.
// Keys expire with the window, so stale records clean themselves up.
type RedisRateLimitRepository struct {
	client *redis.Client
	ctx    context.Context
	config *config.Config
	logger *logger.Logger
}

// NewRedisRateLimitRepository creates a new Redis rate limit repository
func NewRedisRateLimitRepository(client *redis.Client, cfg *config.Config, logger *logger.Logger) RateLimitRepository {
	return &RedisRateLimitRepository{
		client: client,
		ctx:    context.Background(),
		config: cfg,
		logger: logger,
	}
}

// GetRateLimit retrieves rate limit information for a subject key
func (r *RedisRateLimitRepository) GetRateLimit(subjectKey string) (*entity.RateLimitInfo, error) {
	key := fmt.Sprintf("rate_limit:%s", subjectKey)

	data, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		r.logger.Debugw("No rate limit record found", "subject", subjectKey)
		return &entity.RateLimitInfo{
			SubjectKey:   subjectKey,
			RequestCount: 0,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit info: %w", err)
	}

	var info entity.RateLimitInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate limit info: %w", err)
	}

	return &info, nil
}

// UpdateRateLimit stores rate limit information with a TTL bound to the end
// of the current window
func (r *RedisRateLimitRepository) UpdateRateLimit(info *entity.RateLimitInfo) error {
	key := fmt.Sprintf("rate_limit:%s", info.SubjectKey)

	now := time.Now()
	windowDuration := r.config.RateLimit.WindowDuration

	if info.WindowStartAt.IsZero() {
		info.WindowStartAt = now
	}

	ttl := info.WindowStartAt.Add(windowDuration).Sub(now)
	if ttl <= 0 {
		// Window already expired, restart it
		info.WindowStartAt = now
		info.RequestCount = 1
		ttl = windowDuration
	} else if ttl < time.Minute {
		ttl = time.Minute
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal rate limit info: %w", err)
	}

	if err := r.client.Set(r.ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update rate limit info: %w", err)
	}

	r.logger.Debugw("Rate limit updated",
		"subject", info.SubjectKey,
		"request_count", info.RequestCount,
		"ttl_seconds", int(ttl.Seconds()))

	return nil
}

// CleanupRateLimits ensures no rate-limit key lingers without a TTL. Redis
// expires windowed keys on its own; this only repairs keys that lost their
// expiration.
func (r *RedisRateLimitRepository) CleanupRateLimits(olderThan time.Time) error {
	keys, err := r.client.Keys(r.ctx, "rate_limit:*").Result()
	if err != nil {
		return fmt.Errorf("failed to get rate limit keys: %w", err)
	}

	repaired := 0
	for _, key := range keys {
		ttl, err := r.client.TTL(r.ctx, key).Result()
		if err != nil {
			r.logger.Warnw("Failed to get TTL for key", "key", key, "error", err)
			continue
		}

		if ttl == -1 {
			defaultTTL := r.config.RateLimit.WindowDuration
			if err := r.client.Expire(r.ctx, key, defaultTTL).Err(); err != nil {
				r.logger.Warnw("Failed to set TTL for key", "key", key, "error", err)
				continue
			}
			repaired++
		}
	}

	if repaired > 0 {
		r.logger.Infow("Rate limit cleanup completed", "keys_with_ttl_added", repaired)
	}

	return nil
}
