// Package phone converts free-text national phone input plus a selected
// country into canonical E.164 form, a display string and a validity
// verdict. Country metadata comes from a single source (libphonenumber),
// consumed by both validation and formatting.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize strips all non-digit characters from nationalInput and prepends
// the dial code. No length enforcement happens here; validity is separate.
func Normalize(dialCode, nationalInput string) string {
	digits := stripNonDigits(nationalInput)
	return withPlus(dialCode) + digits
}

// FormatForDisplay renders input in the country's international grouping.
// When the number cannot be parsed for the country, it falls back to
// "<dialCode> <digits>".
func FormatForDisplay(iso2, dialCode, input string) string {
	digits := stripNonDigits(input)
	fallback := strings.TrimSpace(withPlus(dialCode) + " " + digits)

	if digits == "" {
		return fallback
	}

	num, err := phonenumbers.Parse(withPlus(dialCode)+digits, strings.ToUpper(iso2))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return fallback
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
}

// IsValid reports whether input is a valid number for the selected country.
// The candidate must both parse as valid and belong to the selected region,
// so a number that is only valid for some other country is rejected.
func IsValid(iso2, dialCode, input string) bool {
	digits := stripNonDigits(input)
	if digits == "" {
		return false
	}

	region := strings.ToUpper(iso2)
	num, err := phonenumbers.Parse(withPlus(dialCode)+digits, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumberForRegion(num, region)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func withPlus(dialCode string) string {
	dialCode = strings.TrimSpace(dialCode)
	if dialCode == "" {
		return ""
	}
	if !strings.HasPrefix(dialCode, "+") {
		return "+" + stripNonDigits(dialCode)
	}
	return "+" + stripNonDigits(dialCode)
}
