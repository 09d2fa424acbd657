package reconcile

import (
	"fmt"
	"strings"
)

// Cutoff restricts removals to events dated on or after a given day.
// The zero value allows every removal.
type Cutoff struct {
	date  Date
	bound bool
}

// NoCutoff allows every removal.
func NoCutoff() Cutoff {
	return Cutoff{}
}

// CutoffAt allows removals of events dated on or after d.
func CutoffAt(d Date) Cutoff {
	return Cutoff{date: d, bound: true}
}

// Allows reports whether an event on d may be removed.
func (c Cutoff) Allows(d Date) bool {
	if !c.bound {
		return true
	}
	return !d.Before(c.date)
}

// Date returns the cutoff day and whether one is set.
func (c Cutoff) Date() (Date, bool) {
	return c.date, c.bound
}

// String returns "none" or the cutoff day.
func (c Cutoff) String() string {
	if !c.bound {
		return "none"
	}
	return c.date.String()
}

// ParseCutoff resolves "none", "today" or a literal YYYY-MM-DD.
// An empty value means "today".
func ParseCutoff(value string, today Date) (Cutoff, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "", "today":
		return CutoffAt(today), nil
	case "none", "off":
		return NoCutoff(), nil
	default:
		d, err := ParseDate(v)
		if err != nil {
			return Cutoff{}, fmt.Errorf("invalid cutoff: %w", err)
		}
		return CutoffAt(d), nil
	}
}
