package repository

import (
	"context"
	"fmt"
	"time"

	"otp-verify/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBlockRepository stores the fraud block list in Redis. Entries hold
// the block reason as their value; a zero TTL means the block is permanent
// until explicitly removed.
type RedisBlockRepository struct {
	client *redis.Client
	ctx    context.Context
	logger *logger.Logger
}

// NewRedisBlockRepository creates a new Redis block repository
func NewRedisBlockRepository(client *redis.Client, logger *logger.Logger) BlockRepository {
	return &RedisBlockRepository{
		client: client,
		ctx:    context.Background(),
		logger: logger,
	}
}

func subjectBlockKey(subjectKey string) string {
	return fmt.Sprintf("block:subject:%s", subjectKey)
}

func deviceBlockKey(deviceID string) string {
	return fmt.Sprintf("block:device:%s", deviceID)
}

// IsSubjectBlocked reports whether a phone number or email is blocked
func (r *RedisBlockRepository) IsSubjectBlocked(subjectKey string) (bool, error) {
	return r.exists(subjectBlockKey(subjectKey))
}

// IsDeviceBlocked reports whether a device id is blocked
func (r *RedisBlockRepository) IsDeviceBlocked(deviceID string) (bool, error) {
	if deviceID == "" {
		return false, nil
	}
	return r.exists(deviceBlockKey(deviceID))
}

// BlockSubject adds a subject to the block list
func (r *RedisBlockRepository) BlockSubject(subjectKey, reason string, ttl time.Duration) error {
	return r.block(subjectBlockKey(subjectKey), reason, ttl)
}

// BlockDevice adds a device id to the block list
func (r *RedisBlockRepository) BlockDevice(deviceID, reason string, ttl time.Duration) error {
	return r.block(deviceBlockKey(deviceID), reason, ttl)
}

// UnblockSubject removes a subject from the block list
func (r *RedisBlockRepository) UnblockSubject(subjectKey string) error {
	return r.unblock(subjectBlockKey(subjectKey))
}

// UnblockDevice removes a device id from the block list
func (r *RedisBlockRepository) UnblockDevice(deviceID string) error {
	return r.unblock(deviceBlockKey(deviceID))
}

func (r *RedisBlockRepository) exists(key string) (bool, error) {
	count, err := r.client.Exists(r.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block key: %w", err)
	}
	return count > 0, nil
}

func (r *RedisBlockRepository) block(key, reason string, ttl time.Duration) error {
	if reason == "" {
		reason = "blocked"
	}
	if err := r.client.Set(r.ctx, key, reason, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set block key: %w", err)
	}
	r.logger.Infow("Block added", "key", key, "reason", reason, "ttl", ttl.String())
	return nil
}

func (r *RedisBlockRepository) unblock(key string) error {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete block key: %w", err)
	}
	r.logger.Infow("Block removed", "key", key)
	return nil
}
