package eval

import (
	"fmt"
	"slices"
	"time"
)

// Func is a unary function callable from an expression.
type Func func(arg Value) (Value, error)

// Registry maps function names to their implementations.
type Registry map[string]Func

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ArgumentError reports a function called with the wrong kind of value.
type ArgumentError struct {
	Function string
	Got      Value
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("the first argument to %s should be an instant, was: %v", e.Function, e.Got)
}

// Builtins returns a new registry holding full_day and full_hour.
func Builtins() Registry {
	return Registry{
		"full_day":  instantFunc("full_day", fullDay),
		"full_hour": instantFunc("full_hour", fullHour),
	}
}

// instantFunc wraps fn so that it only accepts instants.
func instantFunc(name string, fn func(time.Time) time.Time) Func {
	return func(arg Value) (Value, error) {
		if arg.Kind != KindInstant {
			return Value{}, &ArgumentError{Function: name, Got: arg}
		}
		return InstantValue(fn(arg.Instant)), nil
	}
}

// fullDay floors t to midnight in its own offset.
func fullDay(t time.Time) time.Time {
	t = fixedOffset(t)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// fullHour floors t to the start of its hour in its own offset.
func fullHour(t time.Time) time.Time {
	t = fixedOffset(t)
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
}

// fixedOffset pins t to the offset in effect at t. Rebuilding a wall clock
// time in a named zone is ambiguous when the zone's clocks go back.
func fixedOffset(t time.Time) time.Time {
	name, offset := t.Zone()
	return t.In(time.FixedZone(name, offset))
}
