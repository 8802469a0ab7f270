package otperr

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(KindPhoneBlocked, "this number is blocked")
	assert.Equal(t, "PHONE_BLOCKED: this number is blocked", err.Error())
}

func TestError_MessageWithWait(t *testing.T) {
	err := ResendTooSoon(42 * time.Second)
	assert.Contains(t, err.Error(), "RESEND_TOO_SOON")
	assert.Contains(t, err.Error(), "retry in 42s")
}

func TestResendTooSoon_RoundsUpSubSecond(t *testing.T) {
	// A 300ms remainder must not report "wait 0 seconds"
	err := ResendTooSoon(300 * time.Millisecond)
	assert.Equal(t, 1, err.WaitSeconds)

	err = ResendTooSoon(59500 * time.Millisecond)
	assert.Equal(t, 60, err.WaitSeconds)
}

func TestRateLimited(t *testing.T) {
	err := RateLimited(10 * time.Minute)
	assert.Equal(t, KindRateLimited, err.Kind)
	assert.Equal(t, 600, err.WaitSeconds)
}

func TestCodeMismatch(t *testing.T) {
	err := CodeMismatch(3)
	assert.Equal(t, KindCodeMismatch, err.Kind)
	assert.Equal(t, 3, err.AttemptsRemaining)
	assert.Contains(t, err.Message, "3 attempts remaining")

	// Zero remaining is a legal value on the final burned attempt
	assert.Equal(t, 0, CodeMismatch(0).AttemptsRemaining)
}

func TestAs_UnwrapsThroughWrapping(t *testing.T) {
	inner := NoActiveCode()
	wrapped := fmt.Errorf("verify failed: %w", inner)

	e, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNoActiveCode, e.Kind)
}

func TestAs_PlainError(t *testing.T) {
	_, ok := As(fmt.Errorf("connection refused"))
	assert.False(t, ok)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTooManyAttempts, KindOf(TooManyAttempts()))
	assert.Equal(t, Kind(""), KindOf(fmt.Errorf("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}
