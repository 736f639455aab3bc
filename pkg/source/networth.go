package source

import (
	"strconv"
	"strings"
)

// Tier is the net worth bracket that decides a card's colour.
type Tier string

const (
	TierLow     Tier = "low"     // under 100,000
	TierMedium  Tier = "medium"  // under 200,000
	TierHigh    Tier = "high"    // 200,000 and above
	TierUnknown Tier = "unknown" // no number in the cell
)

// Tier thresholds.
const (
	MediumThreshold = 100_000
	HighThreshold   = 200_000
)

// ParseNetWorth strips '$' and ',' from s and parses the longest leading
// decimal number, so "$1,234.5M" yields 1234.5. ok is false when s does not
// start with a number.
func ParseNetWorth(s string) (v float64, ok bool) {
	clean := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	end := numberPrefix(clean)
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// TierOf classifies a net worth cell.
func TierOf(s string) Tier {
	v, ok := ParseNetWorth(s)
	switch {
	case !ok:
		return TierUnknown
	case v < MediumThreshold:
		return TierLow
	case v < HighThreshold:
		return TierMedium
	default:
		return TierHigh
	}
}

// numberPrefix returns the length of the longest prefix of s of the form
// [+-]digits[.digits][e[+-]digits] that contains at least one digit.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
