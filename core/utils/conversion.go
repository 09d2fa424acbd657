package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Normalize folds full-width characters to their narrow forms and collapses
// runs of whitespace. "１０：００　（月）" becomes "10:00 (月)".
func Normalize(s string) string {
	return strings.Join(strings.Fields(width.Fold.String(s)), " ")
}

// ParseCount extracts the first run of digits from s, e.g. "参加者 12名" -> 12.
func ParseCount(s string) (int, error) {
	s = Normalize(s)
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return 0, fmt.Errorf("no number in %q", s)
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, fmt.Errorf("invalid number in %q: %w", s, err)
	}
	return n, nil
}

// ToInt converts a string to int, returning 0 when it is not a number.
func ToInt(s string) int {
	i, _ := strconv.Atoi(strings.TrimSpace(Normalize(s)))
	return i
}

// ToBool converts "1", "true", "yes" and "on" (any case) to true.
func ToBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
