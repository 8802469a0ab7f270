package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"otp-verify/config"
	"otp-verify/entity"
	"otp-verify/pkg/logger"
	"otp-verify/pkg/otperr"
	"otp-verify/repository"
)

// Code space is the 900,000 equally likely 6-digit strings 100000-999999.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// ChallengeService owns the OTP challenge lifecycle for both phone and
// email subjects: issuance with cooldown and rate-limit gating, and
// verification with a bounded attempt budget.
//
// Challenge states: absent -> pending -> verified | exhausted | expired.
// Pending is re-enterable: a send after expiry creates a fresh record,
// while a send inside the cooldown window is rejected without touching
// the stored code.
type ChallengeService interface {
	Send(subject entity.Subject, purpose entity.Purpose, deviceID string) (*entity.SendResult, error)
	Verify(subject entity.Subject, code string, purpose entity.Purpose) (*entity.User, error)
	HasPendingVerification(subject entity.Subject, purpose entity.Purpose) (bool, error)
	ResendCooldown(subject entity.Subject, purpose entity.Purpose) (time.Duration, error)
	CleanupExpired() error
}

// challengeService implements ChallengeService
type challengeService struct {
	challengeRepo repository.ChallengeRepository
	userRepo      repository.UserRepository
	rateLimitRepo repository.RateLimitRepository
	blockRepo     repository.BlockRepository
	smsSender     SMSSender
	emailSender   EmailSender
	cfg           *config.Config
	logger        *logger.Logger
}

// NewChallengeService creates a new challenge service instance
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	userRepo repository.UserRepository,
	rateLimitRepo repository.RateLimitRepository,
	blockRepo repository.BlockRepository,
	smsSender SMSSender,
	emailSender EmailSender,
	cfg *config.Config,
	logger *logger.Logger,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		rateLimitRepo: rateLimitRepo,
		blockRepo:     blockRepo,
		smsSender:     smsSender,
		emailSender:   emailSender,
		cfg:           cfg,
		logger:        logger,
	}
}

// Send issues a new challenge for the subject unless the block list, the
// send window or the resend cooldown forbids it. A successful send
// supersedes any previous active challenge for the same subject+purpose.
func (s *challengeService) Send(subject entity.Subject, purpose entity.Purpose, deviceID string) (*entity.SendResult, error) {
	key := subject.Key()
	if key == "" {
		return nil, otperr.New(otperr.KindInvalidPhone, "subject must not be empty")
	}
	if !purpose.Valid() {
		return nil, otperr.New(otperr.KindInvalidPhone, fmt.Sprintf("unknown purpose %q", purpose))
	}

	if err := s.checkBlocked(key, deviceID); err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(key); err != nil {
		return nil, err
	}

	active, err := s.challengeRepo.GetActive(key, purpose)
	if err != nil {
		s.logger.Errorw("Failed to look up active challenge", "subject", key, "purpose", purpose, "error", err)
		return nil, fmt.Errorf("failed to look up active challenge: %w", err)
	}
	if active != nil {
		if remaining := active.RemainingCooldown(time.Now(), s.cfg.OTP.ResendCooldown); remaining > 0 {
			// Cooldown still running: deny without generating a new code
			return nil, otperr.ResendTooSoon(remaining)
		}
		// Cooldown elapsed: the new challenge supersedes the old one
		if err := s.challengeRepo.SupersedeActive(key, purpose); err != nil {
			s.logger.Errorw("Failed to supersede prior challenge", "subject", key, "purpose", purpose, "error", err)
			return nil, fmt.Errorf("failed to supersede prior challenge: %w", err)
		}
	}

	code, err := generateCode()
	if err != nil {
		s.logger.Errorw("Failed to generate code", "error", err)
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	challenge := &entity.Challenge{
		SubjectKey: key,
		Channel:    subject.Channel,
		Purpose:    purpose,
		Code:       code,
		DeviceID:   deviceID,
		ExpiresAt:  time.Now().Add(s.cfg.OTP.ExpirationTime),
	}

	created, err := s.challengeRepo.Create(challenge)
	if err != nil {
		s.logger.Errorw("Failed to create challenge", "subject", key, "purpose", purpose, "error", err)
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	if err := s.updateRateLimit(key); err != nil {
		// The challenge exists; a lost rate-limit update is not fatal
		s.logger.Errorw("Failed to update rate limit", "subject", key, "error", err)
	}

	result := &entity.SendResult{
		Channel:   subject.Channel,
		ExpiresAt: created.ExpiresAt,
	}

	if s.debugMode() {
		s.logger.Infow("Debug mode: returning code to caller instead of dispatching",
			"subject", key, "purpose", purpose, "expires_at", created.ExpiresAt)
		result.DebugCode = code
		return result, nil
	}

	if err := s.dispatch(subject, code); err != nil {
		// Remove the phantom record so a legitimate resend is not
		// blocked by a cooldown for a code that never went out
		if delErr := s.challengeRepo.Delete(created.ID); delErr != nil {
			s.logger.Errorw("Failed to delete undelivered challenge", "challenge_id", created.ID, "error", delErr)
		}
		s.logger.Errorw("Failed to dispatch code", "subject", key, "channel", subject.Channel, "error", err)
		return nil, otperr.New(otperr.KindDeliveryFailed, "failed to deliver verification code")
	}

	s.logger.Infow("Challenge issued",
		"subject", key, "channel", subject.Channel, "purpose", purpose, "expires_at", created.ExpiresAt)

	return result, nil
}

// Verify checks a candidate code against the active challenge. A correct
// code consumes the challenge; an incorrect one burns an attempt. Once the
// attempt budget is spent the challenge is exhausted even if the correct
// code arrives later.
func (s *challengeService) Verify(subject entity.Subject, code string, purpose entity.Purpose) (*entity.User, error) {
	key := subject.Key()
	candidate := strings.TrimSpace(code)

	active, err := s.challengeRepo.GetActive(key, purpose)
	if err != nil {
		s.logger.Errorw("Failed to look up active challenge", "subject", key, "purpose", purpose, "error", err)
		return nil, fmt.Errorf("failed to look up active challenge: %w", err)
	}
	if active == nil {
		return nil, otperr.NoActiveCode()
	}

	if active.Attempts >= s.cfg.OTP.MaxAttempts {
		// Exhausted: retire the record even on this check call
		if err := s.challengeRepo.MarkUsed(active.ID); err != nil {
			s.logger.Errorw("Failed to retire exhausted challenge", "challenge_id", active.ID, "error", err)
		}
		s.logger.Warnw("Challenge exhausted", "subject", key, "purpose", purpose, "attempts", active.Attempts)
		return nil, otperr.TooManyAttempts()
	}

	if active.Code != candidate {
		attempts, err := s.challengeRepo.IncrementAttempts(active.ID)
		if err != nil {
			s.logger.Errorw("Failed to increment attempts", "challenge_id", active.ID, "error", err)
			return nil, fmt.Errorf("failed to increment attempts: %w", err)
		}
		remaining := s.cfg.OTP.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		s.logger.Warnw("Incorrect code", "subject", key, "purpose", purpose, "attempts_remaining", remaining)
		return nil, otperr.CodeMismatch(remaining)
	}

	if err := s.challengeRepo.MarkUsed(active.ID); err != nil {
		s.logger.Errorw("Failed to mark challenge as used", "challenge_id", active.ID, "error", err)
		return nil, fmt.Errorf("failed to mark challenge as used: %w", err)
	}

	s.logger.Infow("Challenge verified", "subject", key, "channel", subject.Channel, "purpose", purpose)

	if subject.Channel == entity.ChannelSMS {
		return s.resolveUser(key)
	}
	return nil, nil
}

// HasPendingVerification reports whether an active challenge exists
func (s *challengeService) HasPendingVerification(subject entity.Subject, purpose entity.Purpose) (bool, error) {
	active, err := s.challengeRepo.GetActive(subject.Key(), purpose)
	if err != nil {
		return false, fmt.Errorf("failed to look up active challenge: %w", err)
	}
	return active != nil, nil
}

// ResendCooldown returns the remaining wait before the subject may request
// another code; zero when a send is allowed immediately
func (s *challengeService) ResendCooldown(subject entity.Subject, purpose entity.Purpose) (time.Duration, error) {
	active, err := s.challengeRepo.GetActive(subject.Key(), purpose)
	if err != nil {
		return 0, fmt.Errorf("failed to look up active challenge: %w", err)
	}
	if active == nil {
		return 0, nil
	}
	return active.RemainingCooldown(time.Now(), s.cfg.OTP.ResendCooldown), nil
}

// CleanupExpired removes expired challenges and stale rate-limit records
func (s *challengeService) CleanupExpired() error {
	deleted, err := s.challengeRepo.DeleteExpired()
	if err != nil {
		s.logger.Errorw("Failed to delete expired challenges", "error", err)
		return fmt.Errorf("failed to delete expired challenges: %w", err)
	}
	if deleted > 0 {
		s.logger.Debugw("Deleted expired challenges", "count", deleted)
	}

	olderThan := time.Now().Add(-24 * time.Hour)
	if err := s.rateLimitRepo.CleanupRateLimits(olderThan); err != nil {
		s.logger.Errorw("Failed to cleanup rate limits", "error", err)
		return fmt.Errorf("failed to cleanup rate limits: %w", err)
	}

	return nil
}

func (s *challengeService) checkBlocked(subjectKey, deviceID string) error {
	blocked, err := s.blockRepo.IsSubjectBlocked(subjectKey)
	if err != nil {
		return fmt.Errorf("failed to check subject block: %w", err)
	}
	if blocked {
		s.logger.Warnw("Send refused for blocked subject", "subject", subjectKey)
		return otperr.New(otperr.KindPhoneBlocked, "this number or address is blocked, contact support")
	}

	blocked, err = s.blockRepo.IsDeviceBlocked(deviceID)
	if err != nil {
		return fmt.Errorf("failed to check device block: %w", err)
	}
	if blocked {
		s.logger.Warnw("Send refused for blocked device", "device_id", deviceID)
		return otperr.New(otperr.KindDeviceBlocked, "this device is blocked, contact support")
	}

	return nil
}

func (s *challengeService) checkRateLimit(subjectKey string) error {
	info, err := s.rateLimitRepo.GetRateLimit(subjectKey)
	if err != nil {
		return fmt.Errorf("failed to get rate limit info: %w", err)
	}
	if info == nil || info.RequestCount == 0 {
		return nil
	}

	now := time.Now()
	windowDuration := s.cfg.RateLimit.WindowDuration

	if now.Sub(info.WindowStartAt) >= windowDuration {
		// Window expired, counter resets on the next update
		return nil
	}

	if info.RequestCount >= s.cfg.RateLimit.MaxRequests {
		remaining := info.WindowStartAt.Add(windowDuration).Sub(now)
		return otperr.RateLimited(remaining)
	}

	return nil
}

func (s *challengeService) updateRateLimit(subjectKey string) error {
	info, err := s.rateLimitRepo.GetRateLimit(subjectKey)
	if err != nil {
		return fmt.Errorf("failed to get rate limit info: %w", err)
	}

	now := time.Now()

	if info == nil || info.RequestCount == 0 {
		info = &entity.RateLimitInfo{
			SubjectKey:    subjectKey,
			RequestCount:  1,
			LastRequestAt: now,
			WindowStartAt: now,
		}
	} else {
		if now.Sub(info.WindowStartAt) >= s.cfg.RateLimit.WindowDuration {
			info.RequestCount = 1
			info.WindowStartAt = now
		} else {
			info.RequestCount++
		}
		info.LastRequestAt = now
	}

	return s.rateLimitRepo.UpdateRateLimit(info)
}

func (s *challengeService) dispatch(subject entity.Subject, code string) error {
	expiryMinutes := int(s.cfg.OTP.ExpirationTime / time.Minute)
	message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, expiryMinutes)

	switch subject.Channel {
	case entity.ChannelSMS:
		if s.smsSender == nil {
			return fmt.Errorf("no SMS sender configured")
		}
		return s.smsSender.SendSMS(subject.Key(), message)
	case entity.ChannelEmail:
		if s.emailSender == nil {
			return fmt.Errorf("no email sender configured")
		}
		return s.emailSender.SendEmail(subject.Key(), "Your verification code", message)
	default:
		return fmt.Errorf("unknown channel %q", subject.Channel)
	}
}

func (s *challengeService) resolveUser(phoneNumber string) (*entity.User, error) {
	user, err := s.userRepo.GetByPhoneNumber(phoneNumber)
	if err != nil {
		s.logger.Errorw("Failed to get user", "phone_number", phoneNumber, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user, err = s.userRepo.Create(&entity.User{PhoneNumber: phoneNumber})
		if err != nil {
			s.logger.Errorw("Failed to create user", "phone_number", phoneNumber, "error", err)
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.Infow("New user registered", "user_id", user.ID, "phone_number", phoneNumber)
		return user, nil
	}

	if err := s.userRepo.UpdateLastLogin(phoneNumber); err != nil {
		s.logger.Errorw("Failed to update last login", "phone_number", phoneNumber, "error", err)
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	s.logger.Infow("User logged in", "user_id", user.ID, "phone_number", phoneNumber)

	return user, nil
}

func (s *challengeService) debugMode() bool {
	return s.cfg.OTP.DebugExposeCode && !s.cfg.IsProduction()
}

// generateCode draws a uniform 6-digit code from [100000, 999999]
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
