package identity

import (
	"regexp"
	"strings"
)

var passportPattern = regexp.MustCompile(`^PP-([0-9A-Z]+)([0-9A-Z])$`)

// mod43Alphabet is the Code 39 check-character alphabet.
const mod43Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// ValidatePassport reports whether s is a passport barcode of the form
// PP-<payload><check> whose check character is the mod-43 sum of the payload.
func ValidatePassport(s string) bool {
	_, ok := passportPayload(s)
	return ok
}

func passportPayload(s string) (string, bool) {
	m := passportPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	payload, check := m[1], m[2]
	want, ok := mod43Checksum(payload)
	if !ok || string(want) != check {
		return "", false
	}
	return payload, true
}

func mod43Checksum(payload string) (byte, bool) {
	sum := 0
	for i := 0; i < len(payload); i++ {
		idx := strings.IndexByte(mod43Alphabet, payload[i])
		if idx < 0 {
			return 0, false
		}
		sum += idx
	}
	return mod43Alphabet[sum%len(mod43Alphabet)], true
}
