package eval

import (
	"fmt"
	"time"

	"github.com/jparise/timecalc/internal/timeparse"
)

// Kind identifies what a Value holds.
type Kind int

const (
	// Empty is the state before any term has been evaluated.
	Empty Kind = iota
	// KindDuration is a signed duration.
	KindDuration
	// KindInstant is an absolute point in time.
	KindInstant
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case KindDuration:
		return "duration"
	case KindInstant:
		return "instant"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is the evaluation state: empty, a duration, or an instant.
type Value struct {
	Kind     Kind
	Duration time.Duration
	Instant  time.Time
}

// DurationValue returns a Value holding d.
func DurationValue(d time.Duration) Value {
	return Value{Kind: KindDuration, Duration: d}
}

// InstantValue returns a Value holding t.
func InstantValue(t time.Time) Value {
	return Value{Kind: KindInstant, Instant: t}
}

// Equal reports whether v and u hold the same kind and value. Instants are
// compared as points in time regardless of offset.
func (v Value) Equal(u Value) bool {
	if v.Kind != u.Kind {
		return false
	}
	switch v.Kind {
	case KindDuration:
		return v.Duration == u.Duration
	case KindInstant:
		return v.Instant.Equal(u.Instant)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindDuration:
		return "duration " + timeparse.FormatDuration(v.Duration)
	case KindInstant:
		return "instant " + v.Instant.Format(time.RFC3339Nano)
	default:
		return v.Kind.String()
	}
}
