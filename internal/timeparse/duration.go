// Package timeparse provides the lexical codecs for durations, instants,
// and epoch timestamps used by the expression grammar.
package timeparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// unit is one component of the short duration format.
type unit struct {
	suffix string
	size   uint64
}

// units lists the components in the order they must appear.
var units = []unit{
	{"d", uint64(24 * time.Hour)},
	{"h", uint64(time.Hour)},
	{"m", uint64(time.Minute)},
	{"s", uint64(time.Second)},
	{"ms", uint64(time.Millisecond)},
	{"us", uint64(time.Microsecond)},
	{"ns", uint64(time.Nanosecond)},
}

// durationPattern matches a short-format duration at the start of the input.
// Longest-match semantics are required so that "1ms" is not read as "1m".
var durationPattern = func() *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`^(-)?`)
	for _, u := range units {
		fmt.Fprintf(&b, `(?:(\d+)%s)?`, u.suffix)
	}
	re := regexp.MustCompile(b.String())
	re.Longest()
	return re
}()

// FormatDuration renders d in the short format, e.g. "1d2h3m" or "-4s5ms".
// A zero duration renders as "0s".
func FormatDuration(d time.Duration) string {
	var b strings.Builder
	ns := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		ns = -ns
	}

	for _, u := range units {
		n := ns / u.size
		ns -= n * u.size
		if n != 0 {
			b.WriteString(strconv.FormatUint(n, 10))
			b.WriteString(u.suffix)
		}
	}

	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// ParseDuration parses the short format produced by FormatDuration.
// The whole string must match; "1dxxx" is an error.
func ParseDuration(s string) (time.Duration, error) {
	d, n, err := MatchDuration(s)
	if err != nil {
		return 0, err
	}
	if n != len(s) {
		return 0, fmt.Errorf("invalid duration %q: unexpected %q", s, s[n:])
	}
	return d, nil
}

// MatchDuration matches the longest short-format duration at the start of s
// and returns its value and length in bytes. At least one component must be
// present.
func MatchDuration(s string) (time.Duration, int, error) {
	m := durationPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return 0, 0, fmt.Errorf("invalid duration %q", s)
	}

	var total uint64
	found := false
	for i, u := range units {
		start, end := m[2*(i+2)], m[2*(i+2)+1]
		if start < 0 {
			continue
		}
		found = true
		n, err := strconv.ParseUint(s[start:end], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid duration %q: %w", s[:m[1]], err)
		}
		if n > (math.MaxUint64-total)/u.size {
			return 0, 0, fmt.Errorf("invalid duration %q: value too large", s[:m[1]])
		}
		total += n * u.size
	}
	if !found {
		return 0, 0, fmt.Errorf("invalid duration %q: missing number and unit", s)
	}

	negative := m[2] >= 0
	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	if total > limit {
		return 0, 0, fmt.Errorf("invalid duration %q: value too large", s[:m[1]])
	}

	d := time.Duration(total)
	if negative {
		d = -d
	}
	return d, m[1], nil
}

// FormatSeconds renders d as a number of seconds with up to nine fractional
// digits and no trailing zeros, e.g. "3600" or "-0.25".
func FormatSeconds(d time.Duration) string {
	ns := uint64(d)
	if d < 0 {
		ns = -ns
	}
	return formatDecimal(d < 0, ns/uint64(time.Second), ns%uint64(time.Second))
}

func formatDecimal(negative bool, sec, nsec uint64) string {
	s := strconv.FormatUint(sec, 10)
	if nsec != 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	}
	if negative && (sec != 0 || nsec != 0) {
		s = "-" + s
	}
	return s
}
