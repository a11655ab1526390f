package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ClockLayout = "15:04"

var clockRE = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// IsClock reports whether s looks like an HH:MM time of day.
func IsClock(s string) bool {
	return clockRE.MatchString(strings.TrimSpace(s))
}

// ParseClock parses HH:MM into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !clockRE.MatchString(s) {
		return 0, fmt.Errorf("'%s' is not HH:MM", s)
	}
	h, m, _ := strings.Cut(s, ":")
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	if hh > 23 {
		return 0, fmt.Errorf("invalid hour in '%s'", s)
	}
	if mm > 59 {
		return 0, fmt.Errorf("invalid minute in '%s'", s)
	}
	return time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute, nil
}

// FormatClock renders an offset as HH:MM, wrapping at 24 hours.
func FormatClock(d time.Duration) string {
	minutes := int(d/time.Minute) % (24 * 60)
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ShiftClock moves an HH:MM time by delta, wrapping around midnight.
func ShiftClock(s string, delta time.Duration) (string, error) {
	d, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(d + delta), nil
}

func span(start, end string) (time.Duration, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e < s {
		e += 24 * time.Hour
	}
	return e - s, nil
}

// RunTime returns the minutes from start to end, crossing midnight if
// end is earlier than start. ok is false if either time is
// unparsable.
func RunTime(start, end string) (int, bool) {
	d, err := span(start, end)
	if err != nil {
		return 0, false
	}
	return int(d / time.Minute), true
}

// Elapsed renders the overnight-aware span from start to end as HH:MM.
func Elapsed(start, end string) (string, error) {
	d, err := span(start, end)
	if err != nil {
		return "", err
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// TruncateClock turns "HH:MM:SS" (or longer) into "HH:MM".
func TruncateClock(s string) string {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return strings.TrimSpace(s)
	}
	return parts[0] + ":" + parts[1]
}
