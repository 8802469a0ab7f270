package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"otp-verify/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// TokenInfo stores token metadata in Redis
type TokenInfo struct {
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	LastUsed  time.Time `json:"last_used"`
}

// TokenService handles revocable session storage in Redis
type TokenService struct {
	redis  *redis.Client
	logger *logger.Logger
	ctx    context.Context
}

// NewTokenService creates a new token service
func NewTokenService(redis *redis.Client, logger *logger.Logger) *TokenService {
	return &TokenService{
		redis:  redis,
		logger: logger,
		ctx:    context.Background(),
	}
}

// StoreToken stores token information in Redis
func (s *TokenService) StoreToken(tokenHash string, tokenInfo *TokenInfo, expiration time.Duration) error {
	key := fmt.Sprintf("token:%s", tokenHash)

	data, err := json.Marshal(tokenInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal token info: %w", err)
	}

	if err := s.redis.Set(s.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	// Track the user's active tokens so logout-all can find them
	userKey := fmt.Sprintf("user_tokens:%d", tokenInfo.UserID)
	if err := s.redis.SAdd(s.ctx, userKey, tokenHash).Err(); err != nil {
		s.logger.Warnw("Failed to track active token", "user_id", tokenInfo.UserID, "error", err)
	}
	s.redis.Expire(s.ctx, userKey, expiration+time.Hour)

	s.logger.Debugw("Token stored", "user_id", tokenInfo.UserID, "token_hash", tokenHash[:8]+"...")
	return nil
}

// ValidateToken checks that the session still exists in Redis
func (s *TokenService) ValidateToken(tokenHash string) (*TokenInfo, error) {
	key := fmt.Sprintf("token:%s", tokenHash)

	data, err := s.redis.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("token not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenInfo TokenInfo
	if err := json.Unmarshal([]byte(data), &tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token info: %w", err)
	}

	tokenInfo.LastUsed = time.Now()
	s.touchToken(tokenHash, &tokenInfo)

	return &tokenInfo, nil
}

// touchToken updates the last-used timestamp without blocking the request
func (s *TokenService) touchToken(tokenHash string, tokenInfo *TokenInfo) {
	go func() {
		key := fmt.Sprintf("token:%s", tokenHash)
		data, err := json.Marshal(tokenInfo)
		if err != nil {
			return
		}

		// Preserve the remaining TTL
		ttl := s.redis.TTL(s.ctx, key).Val()
		if ttl > 0 {
			s.redis.Set(s.ctx, key, data, ttl)
		}
	}()
}

// RevokeToken removes a session from Redis (logout)
func (s *TokenService) RevokeToken(tokenHash string) error {
	key := fmt.Sprintf("token:%s", tokenHash)

	if tokenInfo, err := s.ValidateToken(tokenHash); err == nil {
		userKey := fmt.Sprintf("user_tokens:%d", tokenInfo.UserID)
		s.redis.SRem(s.ctx, userKey, tokenHash)
	}

	if err := s.redis.Del(s.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Infow("Token revoked", "token_hash", tokenHash[:8]+"...")
	return nil
}

// RevokeAllUserTokens revokes every session of a user
func (s *TokenService) RevokeAllUserTokens(userID int) error {
	userKey := fmt.Sprintf("user_tokens:%d", userID)

	tokenHashes, err := s.redis.SMembers(s.ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	pipe := s.redis.Pipeline()
	for _, tokenHash := range tokenHashes {
		pipe.Del(s.ctx, fmt.Sprintf("token:%s", tokenHash))
	}
	pipe.Del(s.ctx, userKey)

	if _, err := pipe.Exec(s.ctx); err != nil {
		return fmt.Errorf("failed to revoke all user tokens: %w", err)
	}

	s.logger.Infow("All user tokens revoked", "user_id", userID, "token_count", len(tokenHashes))
	return nil
}
