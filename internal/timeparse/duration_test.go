package timeparse

import (
	"math"
	"testing"
	"time"
)

const day = 24 * time.Hour

func TestFormatDuration(t *testing.T) {
	all := day + time.Hour + time.Minute + time.Second + time.Millisecond + time.Microsecond + time.Nanosecond

	tests := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{"zero", 0, "0s"},
		{"all components", all, "1d1h1m1s1ms1us1ns"},
		{"sparse components", day + time.Minute + time.Millisecond, "1d1m1ms"},
		{"negative small", -3 * time.Hour, "-3h"},
		{"negative all components", -all, "-1d1h1m1s1ms1us1ns"},
		{"many days", 400 * day, "400d"},
		{"nanoseconds only", 7, "7ns"},
		{"minimum", math.MinInt64, "-106751d23h47m16s854ms775us808ns"},
		{"maximum", math.MaxInt64, "106751d23h47m16s854ms775us807ns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.input); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		// Single units
		{"seconds", "10s", 10 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"hours", "2h", 2 * time.Hour, false},
		{"days", "1d", day, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"microseconds", "3us", 3 * time.Microsecond, false},
		{"nanoseconds", "9ns", 9, false},
		{"zero", "0s", 0, false},

		// Combined units
		{"day and hours", "1d2h", day + 2*time.Hour, false},
		{"minutes and milliseconds", "1m5ms", time.Minute + 5*time.Millisecond, false},
		{"negative combined", "-1h30m", -(time.Hour + 30*time.Minute), false},
		{"unnormalised", "90m", 90 * time.Minute, false},

		// Error cases
		{"empty string", "", 0, true},
		{"sign only", "-", 0, true},
		{"no unit", "123", 0, true},
		{"invalid unit", "10x", 0, true},
		{"trailing garbage", "1dxxx", 0, true},
		{"out of order", "1s1h", 0, true},
		{"repeated unit", "1h1h", 0, true},
		{"plus sign", "+1s", 0, true},
		{"fractional", "1.5h", 0, true},
		{"whitespace", " 10h", 0, true},
		{"too large", "106752d", 0, true},
		{"number overflow", "99999999999999999999ns", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDurationRoundTrip(t *testing.T) {
	values := []time.Duration{
		0,
		1,
		-1,
		time.Second,
		-7 * time.Second,
		26*time.Hour + 3*time.Minute + 4*time.Second,
		-(day + 999*time.Millisecond + 999*time.Microsecond + 999),
		math.MaxInt64,
		math.MinInt64,
	}

	for _, d := range values {
		s := FormatDuration(d)
		got, err := ParseDuration(s)
		if err != nil {
			t.Errorf("ParseDuration(FormatDuration(%d)) = error %v (formatted %q)", d, err, s)
			continue
		}
		if got != d {
			t.Errorf("ParseDuration(%q) = %d, want %d", s, got, d)
		}
	}
}

func TestMatchDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantLen int
		wantErr bool
	}{
		{"whole input", "1d", day, 2, false},
		{"stops at space", "2h + 1s", 2 * time.Hour, 2, false},
		{"prefers milliseconds over minutes", "1ms", time.Millisecond, 3, false},
		{"negative", "-3m4s)", -(3*time.Minute + 4*time.Second), 5, false},
		{"datetime is not a duration", "2000-01-01T00:00:00Z", 0, 0, true},
		{"timestamp is not a duration", "1.5", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := MatchDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("MatchDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want || n != tt.wantLen {
				t.Errorf("MatchDuration(%q) = %v, %d, want %v, %d", tt.input, got, n, tt.want, tt.wantLen)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0"},
		{time.Hour, "3600"},
		{1500 * time.Millisecond, "1.5"},
		{-250 * time.Millisecond, "-0.25"},
		{-7 * time.Second, "-7"},
		{1, "0.000000001"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.input); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
