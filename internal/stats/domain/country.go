package domain

import "strings"

const UnknownCountry = "Unknown"

// CountryFromPhone classifies a phone number by dialing prefix using
// the supplied prefix table (dial code -> ISO country). Longest prefix
// wins so "34" never shadows "353". Anything unmappable is Unknown.
func CountryFromPhone(phone string, prefixes map[string]string) string {
	digits := normalizePhone(phone)
	if digits == "" || len(prefixes) == 0 {
		return UnknownCountry
	}

	best := ""
	for prefix := range prefixes {
		if strings.HasPrefix(digits, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return UnknownCountry
	}
	return prefixes[best]
}

// normalizePhone strips formatting and the international escape so the
// remaining digits start at the dial code.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
	}
	return digits
}
