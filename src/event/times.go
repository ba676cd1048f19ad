package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Typed parse errors so callers can tell "garbage" from "valid shape,
// impossible value" instead of branching on empty strings.
var (
	ErrUnparsableDay    = errors.New("day does not match YYYY-M-D")
	ErrUnparsableTime   = errors.New("time is missing or unparsable")
	ErrOutOfRange       = errors.New("time value out of range")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
)

var (
	dayPattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	clockPattern = regexp.MustCompile(`(?:^|T|\s)(\d{1,2}):(\d{2})`)
)

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// NormalizeDay zero-pads the month and day of a YYYY-M-D string.
// Inputs that do not match the pattern pass through unchanged; use
// ParseDay when the caller needs to reject them.
func NormalizeDay(s string) string {
	m := dayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	return m[1] + "-" + pad2(m[2]) + "-" + pad2(m[3])
}

// ParseDay normalizes a day string and verifies it names a real
// calendar date.
func ParseDay(s string) (string, error) {
	m := dayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", ErrUnparsableDay
	}
	normalized := m[1] + "-" + pad2(m[2]) + "-" + pad2(m[3])
	if _, err := time.Parse("2006-01-02", normalized); err != nil {
		return "", ErrOutOfRange
	}
	return normalized, nil
}

// NormalizeClock zero-pads the hour and minute of an H:M[:S] string.
// Inputs without a colon pass through unchanged.
func NormalizeClock(t string) string {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return t
	}
	return pad2(parts[0]) + ":" + pad2(parts[1])
}

// CombineDayTime turns a form day plus a wall-clock time into a UTC
// ISO instant for the backend. A value that already contains the
// date-time separator is assumed to be an ISO instant and passes
// through unchanged. An empty or unparsable time is an error, not an
// empty string: a create submission must be blocked, not silently
// truncated.
func CombineDayTime(day, clock string) (string, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return "", ErrUnparsableTime
	}
	if strings.Contains(clock, "T") {
		return clock, nil
	}
	day = strings.TrimSpace(day)
	if day == "" {
		return "", ErrUnparsableDay
	}
	useDay, err := ParseDay(day)
	if err != nil {
		return "", err
	}

	useClock := NormalizeClock(clock)
	parts := strings.Split(useClock, ":")
	if len(parts) < 2 {
		return "", ErrUnparsableTime
	}
	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return "", ErrUnparsableTime
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", ErrOutOfRange
	}

	candidate := useDay + "T" + useClock + ":00Z"
	dt, err := time.Parse(time.RFC3339, candidate)
	if err != nil {
		return "", ErrUnparsableTime
	}
	return dt.UTC().Format(time.RFC3339), nil
}

// ParseInstant parses an ISO-8601 instant, tolerating a trailing "Z"
// or an explicit offset.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrUnparsableTime
	}
	return t.UTC(), nil
}

// Clock12 renders a time string as a 12-hour clock with an AM/PM
// suffix. It pattern-matches the hour:minute pair out of whatever form
// it is handed: a bare "18:30", a zoned "18:30:00+00:00", or a full
// ISO instant. When no time pattern is found the input is returned
// unmodified.
func Clock12(s string) string {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil || hour > 23 {
		return s
	}
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%02d:%s %s", hour12, m[2], meridiem)
}

// Today returns the local calendar date in the backend's day format.
func Today() string {
	return time.Now().Format("2006-01-02")
}
