package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"otp-verify/config"
	"otp-verify/entity"
	"otp-verify/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService interface defines JWT operations
type JWTService interface {
	GenerateToken(user *entity.User) (*entity.AuthResponse, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	GetUserFromToken(token *jwt.Token) (*entity.User, error)
	RevokeToken(tokenString string) error
	RevokeAllUserTokens(userID int) error
}

// jwtService implements JWTService interface
type jwtService struct {
	cfg          *config.Config
	logger       *logger.Logger
	tokenService *TokenService
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID      int    `json:"user_id"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// NewJWTService creates a new JWT service instance
func NewJWTService(cfg *config.Config, logger *logger.Logger, tokenService *TokenService) JWTService {
	return &jwtService{
		cfg:          cfg,
		logger:       logger,
		tokenService: tokenService,
	}
}

// GenerateToken generates a JWT token for a user that passed verification
func (s *jwtService) GenerateToken(user *entity.User) (*entity.AuthResponse, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.JWT.ExpirationTime)

	claims := JWTClaims{
		UserID:      user.ID,
		PhoneNumber: user.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "otp-verify",
			Subject:   fmt.Sprintf("user:%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		s.logger.Errorw("Failed to sign JWT token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if s.tokenService != nil {
		tokenHash := hashToken(tokenString)
		tokenInfo := &TokenInfo{
			UserID:    user.ID,
			TokenHash: tokenHash,
			IssuedAt:  now,
			ExpiresAt: expiresAt,
			LastUsed:  now,
		}

		if err := s.tokenService.StoreToken(tokenHash, tokenInfo, s.cfg.JWT.ExpirationTime); err != nil {
			// Token generation succeeds even if the session store is down
			s.logger.Warnw("Failed to store token in Redis", "user_id", user.ID, "error", err)
		}
	}

	s.logger.Infow("JWT token generated", "user_id", user.ID, "expires_at", expiresAt)

	return &entity.AuthResponse{
		Token: tokenString,
		User: entity.UserResponse{
			ID:           user.ID,
			PhoneNumber:  user.PhoneNumber,
			RegisteredAt: user.RegisteredAt,
			LastLoginAt:  user.LastLoginAt,
			IsActive:     user.IsActive,
		},
		ExpiresAt: expiresAt,
		Message:   "Authentication successful",
	}, nil
}

// ValidateToken validates a JWT token signature and its Redis session
func (s *jwtService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWT.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if s.tokenService != nil {
		if _, err := s.tokenService.ValidateToken(hashToken(tokenString)); err != nil {
			return nil, fmt.Errorf("token session expired")
		}
	}

	return token, nil
}

// GetUserFromToken extracts user information from a validated JWT token
func (s *jwtService) GetUserFromToken(token *jwt.Token) (*entity.User, error) {
	claims, ok := token.Claims.(*JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &entity.User{
		ID:          claims.UserID,
		PhoneNumber: claims.PhoneNumber,
		IsActive:    true,
	}, nil
}

// RevokeToken revokes a specific token (logout)
func (s *jwtService) RevokeToken(tokenString string) error {
	if s.tokenService == nil {
		return fmt.Errorf("token service not available")
	}
	return s.tokenService.RevokeToken(hashToken(tokenString))
}

// RevokeAllUserTokens revokes all tokens for a user (logout from all devices)
func (s *jwtService) RevokeAllUserTokens(userID int) error {
	if s.tokenService == nil {
		return fmt.Errorf("token service not available")
	}
	return s.tokenService.RevokeAllUserTokens(userID)
}

// hashToken hashes a token for storage; raw JWTs never reach Redis
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
