package identity

import "regexp"

var nationalIDPattern = regexp.MustCompile(`^[STFGM][0-9]{7}[A-Z]$`)

var nationalIDWeights = [7]int{2, 7, 6, 5, 4, 3, 2}

// Checksum letters indexed by the weighted sum modulo 11, per prefix series.
const (
	citizenChecksums   = "JZIHGFEDCBA" // S, T
	foreignerChecksums = "XWUTRQPNMLK" // F, G
	mSeriesChecksums   = "XWUTRQPNJLK" // M
)

// ValidateNationalID reports whether s is an uppercase national ID/FIN whose
// trailing letter matches the checksum computed from its prefix and digits.
func ValidateNationalID(s string) bool {
	if !nationalIDPattern.MatchString(s) {
		return false
	}
	want, ok := nationalIDChecksum(s[0], s[1:8])
	return ok && s[8] == want
}

func nationalIDChecksum(prefix byte, digits string) (byte, bool) {
	sum := 0
	for i := 0; i < len(nationalIDWeights); i++ {
		sum += int(digits[i]-'0') * nationalIDWeights[i]
	}

	var table string
	switch prefix {
	case 'S':
		table = citizenChecksums
	case 'T':
		sum += 4
		table = citizenChecksums
	case 'F':
		table = foreignerChecksums
	case 'G':
		sum += 4
		table = foreignerChecksums
	case 'M':
		sum += 3
		table = mSeriesChecksums
	default:
		return 0, false
	}
	return table[sum%11], true
}
