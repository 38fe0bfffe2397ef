package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MinuteOfDay is a time of day expressed as minutes from local midnight.
// The value 1440 is allowed as an exclusive end bound (end of day).
type MinuteOfDay int

const MinutesPerDay = 24 * 60

// ParseClock parses "HH:MM" into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	v := MinuteOfDay(h*60 + m)
	if v > MinutesPerDay {
		return 0, fmt.Errorf("clock value %q is past end of day", s)
	}
	return v, nil
}

// Valid reports whether m lies within a single day including the
// exclusive end-of-day bound.
func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m <= MinutesPerDay
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
