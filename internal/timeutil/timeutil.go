// Package timeutil parses the time expressions accepted in factory
// definitions. Durations are Go durations or a whole number of days (d) or
// weeks (w). Instants are RFC3339, "now", or a signed offset from now.
package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var calendarUnits = map[byte]time.Duration{
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
}

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	unit, ok := calendarUnits[s[len(s)-1]]
	if !ok {
		return 0, fmt.Errorf("unknown duration unit in %q", s)
	}
	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n) * unit, nil
}

func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, errors.New("empty time")
	case strings.EqualFold(s, "now"):
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return time.Time{}, fmt.Errorf("relative time %q must start with + or -", s)
	}
	d, err := ParseDuration(s[1:])
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(sign * d), nil
}
