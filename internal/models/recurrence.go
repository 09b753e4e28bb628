package models

import (
	"fmt"
	"strings"
	"time"
)

type RecurrenceKind string

const (
	OncePerDay  RecurrenceKind = "once"
	TwiceDaily  RecurrenceKind = "twice"
	ThriceDaily RecurrenceKind = "thrice"
)

// TimeCount is how many times of day the kind needs. OncePerDay uses a fixed interval instead.
func (k RecurrenceKind) TimeCount() int {
	switch k {
	case TwiceDaily:
		return 2
	case ThriceDaily:
		return 3
	}
	return 0
}

// ParseRecurrenceKind accepts the menu number or the kind name.
func ParseRecurrenceKind(s string) (RecurrenceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "once", "onceperday", "daily":
		return OncePerDay, nil
	case "2", "twice", "twicedaily":
		return TwiceDaily, nil
	case "3", "thrice", "thricedaily":
		return ThriceDaily, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, s)
}

// Recurrence is a closed set of daily patterns. Times are "15:04" in UTC.
type Recurrence struct {
	Kind  RecurrenceKind
	Times []string
}

func NewRecurrence(kind RecurrenceKind, times []string) (Recurrence, error) {
	switch kind {
	case OncePerDay, TwiceDaily, ThriceDaily:
	default:
		return Recurrence{}, fmt.Errorf("%w: kind %q", ErrInvalidRecurrence, kind)
	}
	if len(times) != kind.TimeCount() {
		return Recurrence{}, fmt.Errorf("%w: %s needs %d times, got %d", ErrInvalidRecurrence, kind, kind.TimeCount(), len(times))
	}
	normalized := make([]string, 0, len(times))
	for _, t := range times {
		parsed, err := time.Parse("15:04", strings.TrimSpace(t))
		if err != nil {
			return Recurrence{}, fmt.Errorf("%w: time %q", ErrInvalidRecurrence, t)
		}
		normalized = append(normalized, parsed.Format("15:04"))
	}
	if len(normalized) == 0 {
		normalized = nil
	}
	return Recurrence{Kind: kind, Times: normalized}, nil
}

// Timers is the number of independent timers this recurrence registers.
func (r Recurrence) Timers() int {
	if r.Kind == OncePerDay {
		return 1
	}
	return len(r.Times)
}
