package otperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies a policy failure. Kinds are stable wire values: the HTTP
// layer and the client round-trip them in the "code" field of error bodies.
type Kind string

const (
	KindInvalidPhone       Kind = "INVALID_PHONE"
	KindPhoneBlocked       Kind = "PHONE_BLOCKED"
	KindDeviceBlocked      Kind = "DEVICE_BLOCKED"
	KindRateLimited        Kind = "RATE_LIMITED"
	KindResendTooSoon      Kind = "RESEND_TOO_SOON"
	KindServiceUnavailable Kind = "SERVICE_UNAVAILABLE"
	KindDeliveryFailed     Kind = "DELIVERY_FAILED"
	KindNoActiveCode       Kind = "NO_ACTIVE_CODE"
	KindCodeMismatch       Kind = "CODE_MISMATCH"
	KindTooManyAttempts    Kind = "TOO_MANY_ATTEMPTS"
)

// Error is a policy failure with a machine-readable kind and optional
// structured payload. Callers branch on Kind, never on message text.
type Error struct {
	Kind              Kind
	Message           string
	WaitSeconds       int
	AttemptsRemaining int
}

func (e *Error) Error() string {
	if e.WaitSeconds > 0 {
		return fmt.Sprintf("%s: %s (retry in %ds)", e.Kind, e.Message, e.WaitSeconds)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ResendTooSoon reports that the resend cooldown has not elapsed yet
func ResendTooSoon(wait time.Duration) *Error {
	seconds := int(wait.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return &Error{
		Kind:        KindResendTooSoon,
		Message:     "a code was sent recently, wait before requesting another",
		WaitSeconds: seconds,
	}
}

// RateLimited reports that the send window is exhausted
func RateLimited(window time.Duration) *Error {
	return &Error{
		Kind:        KindRateLimited,
		Message:     "too many code requests, try again later",
		WaitSeconds: int(window / time.Second),
	}
}

// CodeMismatch reports an incorrect code with the remaining attempt budget
func CodeMismatch(remaining int) *Error {
	return &Error{
		Kind:              KindCodeMismatch,
		Message:           fmt.Sprintf("incorrect code, %d attempts remaining", remaining),
		AttemptsRemaining: remaining,
	}
}

// TooManyAttempts reports an exhausted challenge
func TooManyAttempts() *Error {
	return &Error{
		Kind:    KindTooManyAttempts,
		Message: "too many incorrect attempts, request a new code",
	}
}

// NoActiveCode reports that no valid challenge exists for the subject
func NoActiveCode() *Error {
	return &Error{
		Kind:    KindNoActiveCode,
		Message: "no valid code found, request a new one",
	}
}

// As unwraps err into an *Error if it is one
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or the empty kind for non-policy errors
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
