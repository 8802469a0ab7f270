package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		dialCode string
		input    string
		expected string
	}{
		{"Plain Digits", "+1", "4155552671", "+14155552671"},
		{"Formatted Input", "+1", "(415) 555-2671", "+14155552671"},
		{"Dots And Spaces", "+33", "06 12.34.56.78", "+330612345678"},
		{"Dial Code Without Plus", "44", "7911123456", "+447911123456"},
		{"Empty Input", "+1", "", "+1"},
		{"Empty Dial Code", "", "4155552671", "4155552671"},
		{"Letters Dropped", "+1", "415CALL", "+1415"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.dialCode, tc.input))
		})
	}
}

func TestIsValid(t *testing.T) {
	testCases := []struct {
		name     string
		iso2     string
		dialCode string
		input    string
		valid    bool
	}{
		{"Valid US", "US", "+1", "4155552671", true},
		{"Valid US Formatted", "US", "+1", "(415) 555-2671", true},
		{"Valid UK Mobile", "GB", "+44", "7911123456", true},
		{"Valid FR Mobile", "FR", "+33", "612345678", true},
		{"Lowercase Region", "us", "+1", "4155552671", true},
		{"Too Short", "US", "+1", "415555", false},
		{"Too Long", "US", "+1", "41555526719999", false},
		{"Empty", "US", "+1", "", false},
		{"Letters Only", "US", "+1", "CALLME", false},
		{"Wrong Region", "GB", "+44", "4155552671", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValid(tc.iso2, tc.dialCode, tc.input))
		})
	}
}

func TestIsValid_RegionMismatch(t *testing.T) {
	// A valid US number presented under the GB selection must be rejected
	// even though the number itself is valid somewhere
	assert.True(t, IsValid("US", "+1", "4155552671"))
	assert.False(t, IsValid("GB", "+1", "4155552671"))
}

func TestFormatForDisplay(t *testing.T) {
	// Valid numbers get the country's international grouping
	assert.Equal(t, "+1 415-555-2671", FormatForDisplay("US", "+1", "4155552671"))
	assert.Equal(t, "+44 7911 123456", FormatForDisplay("GB", "+44", "7911123456"))
}

func TestFormatForDisplay_Fallback(t *testing.T) {
	// Partial input falls back to "<dialCode> <digits>" instead of erroring
	assert.Equal(t, "+1 415", FormatForDisplay("US", "+1", "415"))
	assert.Equal(t, "+1 415", FormatForDisplay("US", "+1", "(415"))
	assert.Equal(t, "+1", FormatForDisplay("US", "+1", ""))
	assert.Equal(t, "+1", FormatForDisplay("US", "+1", "abc"))
}
