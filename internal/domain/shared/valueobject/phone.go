package valueobject

import (
	"strings"
)

// SaudiCountryCode is the fixed country code applied to every stored phone number
const SaudiCountryCode = "+966"

// NormalizePhone trims the input and prefixes it with the Saudi country code.
// Inputs that already carry the prefix are kept as is; otherwise leading zeros
// are dropped before the prefix is added. An empty input stays empty.
// Nothing else is rewritten: inner spaces or dashes are stored as typed, and
// landlines are prefixed like mobiles.
// NormalizePhone(NormalizePhone(p)) == NormalizePhone(p) for every p.
func NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	if strings.HasPrefix(phone, SaudiCountryCode) {
		return phone
	}
	return SaudiCountryCode + strings.TrimLeft(phone, "0")
}

// FormatPhone renders a normalized number as "+966 XX XXX XXXX".
// Numbers that do not have exactly nine local digits, including ones stored
// with separators, are returned unchanged.
func FormatPhone(phone string) string {
	if !strings.HasPrefix(phone, SaudiCountryCode) {
		return phone
	}
	local := strings.TrimPrefix(phone, SaudiCountryCode)
	if len(local) != 9 {
		return phone
	}
	return SaudiCountryCode + " " + local[0:2] + " " + local[2:5] + " " + local[5:]
}
