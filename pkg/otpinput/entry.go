// Package otpinput models a segmented code entry field, one slot per digit,
// with the focus and resend-countdown rules clients expect from such widgets.
package otpinput

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrNotDigit  = errors.New("only digits are accepted")
	ErrBadPaste  = errors.New("pasted text does not contain exactly one code")
	ErrCountdown = errors.New("resend not available yet")
	ErrBadLength = errors.New("length must be positive")
)

// Entry tracks the state of a segmented OTP input: the digit slots, which
// slot holds focus, and the resend countdown.
type Entry struct {
	slots         []rune
	focus         int
	resendSeconds int
	countdown     int
}

// New creates an entry with the given number of digit slots. The resend
// countdown starts at resendSeconds and ticks down via Tick.
func New(length, resendSeconds int) (*Entry, error) {
	if length <= 0 {
		return nil, ErrBadLength
	}
	if resendSeconds < 0 {
		resendSeconds = 0
	}
	return &Entry{
		slots:         make([]rune, length),
		resendSeconds: resendSeconds,
		countdown:     resendSeconds,
	}, nil
}

// Type writes a digit into the focused slot and advances focus. Typing into
// the last slot overwrites it and keeps focus there.
func (e *Entry) Type(r rune) error {
	if !unicode.IsDigit(r) {
		return ErrNotDigit
	}
	e.slots[e.focus] = r
	if e.focus < len(e.slots)-1 {
		e.focus++
	}
	return nil
}

// Backspace clears the focused slot if it holds a digit, otherwise retreats
// one slot and clears that one. At the first empty slot it does nothing.
func (e *Entry) Backspace() {
	if e.slots[e.focus] != 0 {
		e.slots[e.focus] = 0
		return
	}
	if e.focus > 0 {
		e.focus--
		e.slots[e.focus] = 0
	}
}

// Paste fills every slot from pasted text. Non-digit characters are ignored;
// the remaining digits must match the slot count exactly or nothing changes.
func (e *Entry) Paste(text string) error {
	var digits []rune
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) != len(e.slots) {
		return ErrBadPaste
	}
	copy(e.slots, digits)
	e.focus = len(e.slots) - 1
	return nil
}

// Code returns the digits entered so far, skipping empty slots
func (e *Entry) Code() string {
	var b strings.Builder
	for _, r := range e.slots {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Complete reports whether every slot holds a digit
func (e *Entry) Complete() bool {
	for _, r := range e.slots {
		if r == 0 {
			return false
		}
	}
	return true
}

// Focus returns the index of the focused slot
func (e *Entry) Focus() int {
	return e.focus
}

// Tick advances the resend countdown by one second
func (e *Entry) Tick() {
	if e.countdown > 0 {
		e.countdown--
	}
}

// CountdownSeconds returns the seconds left before resend is allowed
func (e *Entry) CountdownSeconds() int {
	return e.countdown
}

// CanResend reports whether the countdown has elapsed
func (e *Entry) CanResend() bool {
	return e.countdown == 0
}

// Resend clears all slots, returns focus to the first one and restarts the
// countdown. It refuses while the countdown is still running.
func (e *Entry) Resend() error {
	if !e.CanResend() {
		return ErrCountdown
	}
	for i := range e.slots {
		e.slots[i] = 0
	}
	e.focus = 0
	e.countdown = e.resendSeconds
	return nil
}
