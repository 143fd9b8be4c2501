// Package phone provides phone number normalization utilities.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "ES"

// NormalizeE164 parses a phone number and returns it in E.164 format.
// Numbers without a country prefix are assumed to be Spanish.
// Returns the input unchanged if parsing fails.
func NormalizeE164(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	num, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return trimmed
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
