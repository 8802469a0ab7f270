package entity

import (
	"strings"
	"time"
)

// Purpose classifies what a challenge authorizes
type Purpose string

const (
	PurposeRegistration  Purpose = "registration"
	PurposeLogin         Purpose = "login"
	PurposePasswordReset Purpose = "password_reset"
	PurposeVerification  Purpose = "verification"
)

// Valid reports whether p is a known purpose
func (p Purpose) Valid() bool {
	switch p {
	case PurposeRegistration, PurposeLogin, PurposePasswordReset, PurposeVerification:
		return true
	}
	return false
}

// Channel is the delivery route for a challenge code
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Subject is the party being verified: an E.164 phone number or an email
// address. Key() is the canonical lookup form.
type Subject struct {
	Channel Channel
	Value   string
}

// PhoneSubject builds a subject for an E.164 phone number
func PhoneSubject(e164 string) Subject {
	return Subject{Channel: ChannelSMS, Value: strings.TrimSpace(e164)}
}

// EmailSubject builds a subject for an email address
func EmailSubject(email string) Subject {
	return Subject{Channel: ChannelEmail, Value: strings.ToLower(strings.TrimSpace(email))}
}

// Key returns the normalized subject key stored with the challenge
func (s Subject) Key() string {
	if s.Channel == ChannelEmail {
		return strings.ToLower(strings.TrimSpace(s.Value))
	}
	return strings.TrimSpace(s.Value)
}

// Challenge is a single OTP code instance tied to a subject and purpose,
// with its own expiry and attempt counter. At most one active (unused,
// unexpired) challenge exists per (subject_key, purpose): a new send
// either rejects with cooldown or supersedes the prior record.
type Challenge struct {
	ID         int        `db:"id" json:"id"`
	SubjectKey string     `db:"subject_key" json:"subject_key"`
	Channel    Channel    `db:"channel" json:"channel"`
	Purpose    Purpose    `db:"purpose" json:"purpose"`
	Code       string     `db:"code" json:"-"`
	DeviceID   string     `db:"device_id" json:"device_id"`
	Attempts   int        `db:"attempts" json:"attempts"`
	IsUsed     bool       `db:"is_used" json:"is_used"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt     *time.Time `db:"used_at" json:"used_at"`
}

// TableName returns the table name for the Challenge entity
func (Challenge) TableName() string {
	return "otp_challenges"
}

// Expired reports whether the challenge expiry has passed at the given time
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// RemainingCooldown returns how long a resend must still wait, derived
// from the record's creation time; zero when the cooldown has elapsed.
func (c *Challenge) RemainingCooldown(now time.Time, cooldown time.Duration) time.Duration {
	remaining := cooldown - now.Sub(c.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SendResult is the outcome of a successful send
type SendResult struct {
	Channel   Channel   `json:"channel"`
	ExpiresAt time.Time `json:"expires_at"`
	// DebugCode carries the generated code in non-production debug mode
	// only; it is never populated in a deployed build.
	DebugCode string `json:"debug_code,omitempty"`
}

// SendOTPRequest is the phone-channel send request body
type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_number"`
	DeviceID    string `json:"device_id" validate:"omitempty,max=64"`
}

// VerifyOTPRequest is the phone-channel verify request body
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone_number"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

// SendOTPResponse is the phone-channel send response body
type SendOTPResponse struct {
	Message     string    `json:"message"`
	PhoneNumber string    `json:"phone_number"`
	Channel     Channel   `json:"channel"`
	ExpiresAt   time.Time `json:"expires_at"`
	DebugCode   string    `json:"debug_code,omitempty"`
}

// VerifyOTPResponse is the phone-channel verify response body. Failures use
// the same shape with Success=false and nothing else, so a caller cannot
// distinguish wrong-code from expired from exhausted.
type VerifyOTPResponse struct {
	Success   bool          `json:"success"`
	Token     string        `json:"token,omitempty"`
	User      *UserResponse `json:"user,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
}

// SendEmailOTPRequest is the email-channel send request body
type SendEmailOTPRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Purpose  Purpose `json:"purpose" validate:"required,otp_purpose"`
	DeviceID string  `json:"device_id" validate:"omitempty,max=64"`
}

// VerifyEmailOTPRequest is the email-channel verify request body
type VerifyEmailOTPRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Code     string  `json:"code" validate:"required,len=6,numeric"`
	Purpose  Purpose `json:"purpose" validate:"required,otp_purpose"`
	DeviceID string  `json:"device_id" validate:"omitempty,max=64"`
}

// EmailOTPResult is the detailed email-channel result body. Unlike the
// phone verify response this one is rich: the email flow is the local
// development path and reports cooldowns and attempt budgets explicitly.
type EmailOTPResult struct {
	Success           bool       `json:"success"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	DebugCode         string     `json:"debug_code,omitempty"`
	CooldownMs        int64      `json:"cooldown_ms,omitempty"`
	AttemptsRemaining *int       `json:"attempts_remaining,omitempty"`
	Error             string     `json:"error,omitempty"`
}

// ErrorResponse is the body of non-2xx policy failures
type ErrorResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	WaitSeconds int    `json:"wait_seconds,omitempty"`
}

// RateLimitInfo tracks send-request counts inside a sliding window for one
// subject key
type RateLimitInfo struct {
	SubjectKey    string    `db:"subject_key" json:"subject_key"`
	RequestCount  int       `db:"request_count" json:"request_count"`
	LastRequestAt time.Time `db:"last_request_at" json:"last_request_at"`
	WindowStartAt time.Time `db:"window_start_at" json:"window_start_at"`
}

// BlockRequest manages the fraud block list (internal endpoints)
type BlockRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=subject device"`
	Value      string `json:"value" validate:"required"`
	Reason     string `json:"reason" validate:"omitempty,max=256"`
	TTLSeconds int    `json:"ttl_seconds" validate:"omitempty,min=0"`
}
