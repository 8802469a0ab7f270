package repository

import (
	"time"

	"otp-verify/entity"
)

// RateLimitRepository tracks OTP send counts per subject key inside a
// sliding window. Backed by Redis in production; tests supply an in-memory
// implementation.
type RateLimitRepository interface {
	GetRateLimit(subjectKey string) (*entity.RateLimitInfo, error)
	UpdateRateLimit(info *entity.RateLimitInfo) error
	CleanupRateLimits(olderThan time.Time) error
}

// BlockRepository is the fraud block list consulted before every send.
// Subjects (phones or emails) and device ids can be blocked independently.
type BlockRepository interface {
	IsSubjectBlocked(subjectKey string) (bool, error)
	IsDeviceBlocked(deviceID string) (bool, error)
	BlockSubject(subjectKey, reason string, ttl time.Duration) error
	BlockDevice(deviceID, reason string, ttl time.Duration) error
	UnblockSubject(subjectKey string) error
	UnblockDevice(deviceID string) error
}
