package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// instantPattern is the extended ISO 8601 date-time form with a required
// offset or Z suffix.
var instantPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})`)

// timestampPattern is an epoch-seconds value with an optional fraction.
var timestampPattern = regexp.MustCompile(`^(-)?(\d+)(?:\.(\d{1,9}))?`)

// MatchInstant matches an instant such as 2018-10-27T10:00:00-07:00 at the
// start of s and returns it with its length in bytes. The offset of the
// input is preserved in the returned time.
func MatchInstant(s string) (time.Time, int, error) {
	m := instantPattern.FindString(s)
	if m == "" {
		return time.Time{}, 0, fmt.Errorf("not a datetime")
	}
	t, err := time.Parse(time.RFC3339Nano, m)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("bad datetime %q: %w", m, err)
	}
	return t, len(m), nil
}

// MatchTimestamp matches epoch seconds such as "1700000000" or "-1.5" at
// the start of s. The fraction is right-padded with zeros to nanoseconds.
// The returned time is in UTC.
func MatchTimestamp(s string) (time.Time, int, error) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, 0, fmt.Errorf("not a timestamp")
	}

	sec, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("bad timestamp %q: %w", m[0], err)
	}
	var nsec int64
	if m[3] != "" {
		frac := m[3] + strings.Repeat("0", 9-len(m[3]))
		nsec, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("bad timestamp %q: %w", m[0], err)
		}
	}
	if m[1] != "" {
		sec, nsec = -sec, -nsec
	}

	return time.Unix(sec, nsec).UTC(), len(m[0]), nil
}

// InstantInRange reports whether t has a four-digit year in UTC, and so
// can be written in the form accepted by MatchInstant.
func InstantInRange(t time.Time) bool {
	year := t.UTC().Year()
	return year >= 0 && year <= 9999
}

// FormatInstant renders t as RFC 3339 in its own offset. UTC is used
// instead when that offset has a seconds component, which RFC 3339 cannot
// carry, or when it moves the year out of range.
func FormatInstant(t time.Time) string {
	_, offset := t.Zone()
	if year := t.Year(); offset%60 != 0 || year < 0 || year > 9999 {
		t = t.UTC()
	}
	return t.Format(time.RFC3339Nano)
}

// FormatTimestamp renders t as epoch seconds in the form accepted by
// MatchTimestamp.
func FormatTimestamp(t time.Time) string {
	sec, nsec := t.Unix(), int64(t.Nanosecond())
	negative := sec < 0
	if negative {
		if nsec > 0 {
			sec++
			nsec = int64(time.Second) - nsec
		}
		sec = -sec
	}
	return formatDecimal(negative, uint64(sec), uint64(nsec))
}
