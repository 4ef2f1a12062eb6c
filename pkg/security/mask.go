package security

import (
	"strings"

	"go.uber.org/zap"
)

// MaskDigits replaces all but the last keep characters of s with '*'.
func MaskDigits(s string, keep int) string {
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keep) + s[len(s)-keep:]
}

// MaskedMobile is a zap field carrying a mobile number with only its last
// four digits visible.
func MaskedMobile(key, mobile string) zap.Field {
	return zap.String(key, MaskDigits(mobile, 4))
}
