// Package eval folds a parsed expression into an instant or a duration.
package eval

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jparise/timecalc/internal/parse"
	"github.com/jparise/timecalc/internal/timeparse"
)

var (
	// ErrExistingState is returned when a term appears where the running
	// value is already set, e.g. two terms without an operator.
	ErrExistingState = errors.New("cannot evaluate term with existing state")
	// ErrInvalidOperation is returned for operator combinations outside the
	// supported table, e.g. instant + instant.
	ErrInvalidOperation = errors.New("cannot evaluate operation")
	// ErrNoSuchFunction is returned for calls to unregistered functions.
	ErrNoSuchFunction = errors.New("no such function")
	// ErrOverflow is returned when a duration sum does not fit.
	ErrOverflow = errors.New("duration overflow")
	// ErrOutOfRange is returned when the result is an instant outside
	// years 0000 to 9999 in UTC.
	ErrOutOfRange = errors.New("instant out of range")
)

// Evaluator evaluates expression trees. It only reads its registry and is
// safe for concurrent use.
type Evaluator struct {
	funcs Registry
}

// New returns an Evaluator that resolves calls through funcs.
func New(funcs Registry) *Evaluator {
	return &Evaluator{funcs: funcs}
}

var defaultEvaluator = New(Builtins())

// Evaluate evaluates node with the built-in functions.
func Evaluate(node parse.Node, now time.Time) (Value, error) {
	return defaultEvaluator.Evaluate(node, now)
}

// Evaluate folds node into a duration or an instant. now is substituted for
// every "now" in the expression.
func (e *Evaluator) Evaluate(node parse.Node, now time.Time) (Value, error) {
	v, err := e.fold(Value{}, node, now)
	if err != nil {
		return Value{}, err
	}
	if v.Kind == Empty {
		panic(fmt.Sprintf("eval: expression %v evaluated to nothing", node))
	}
	if v.Kind == KindInstant && !timeparse.InstantInRange(v.Instant) {
		return Value{}, fmt.Errorf("%w: %s", ErrOutOfRange, v.Instant.UTC().Format(time.RFC3339Nano))
	}
	return v, nil
}

func (e *Evaluator) fold(state Value, node parse.Node, now time.Time) (Value, error) {
	switch n := node.(type) {
	case parse.Literal:
		return state, nil

	case parse.Duration:
		if state.Kind != Empty {
			return Value{}, fmt.Errorf("%w: duration %v after %v", ErrExistingState, n.Value, state)
		}
		return DurationValue(n.Value), nil

	case parse.Instant:
		if state.Kind != Empty {
			return Value{}, fmt.Errorf("%w: instant after %v", ErrExistingState, state)
		}
		return InstantValue(n.Value), nil

	case parse.Now:
		if state.Kind != Empty {
			return Value{}, fmt.Errorf("%w: now after %v", ErrExistingState, state)
		}
		return InstantValue(now), nil

	case parse.Sequence:
		for _, child := range n.Nodes {
			var err error
			state, err = e.fold(state, child, now)
			if err != nil {
				return Value{}, err
			}
		}
		return state, nil

	case parse.SignedTerm:
		operand, err := e.fold(Value{}, n.Term, now)
		if err != nil {
			return Value{}, err
		}
		return combine(state, n.Sign, operand)

	case parse.Call:
		if state.Kind != Empty {
			return Value{}, fmt.Errorf("%w: call to %s after %v", ErrExistingState, n.Name, state)
		}
		fn, ok := e.funcs[n.Name]
		if !ok {
			return Value{}, fmt.Errorf("%w %s", ErrNoSuchFunction, n.Name)
		}
		arg, err := e.fold(Value{}, n.Argument, now)
		if err != nil {
			return Value{}, err
		}
		return fn(arg)

	default:
		panic(fmt.Sprintf("eval: unexpected node %T", node))
	}
}

// combine applies sign to the running value and an operand:
//
//	instant  - instant  = duration
//	instant  ± duration = instant
//	duration + instant  = instant
//	duration ± duration = duration
func combine(left Value, sign parse.Sign, right Value) (Value, error) {
	switch {
	case left.Kind == KindInstant && right.Kind == KindInstant && sign == parse.Minus:
		return DurationValue(left.Instant.Sub(right.Instant)), nil

	case left.Kind == KindInstant && right.Kind == KindDuration:
		if sign == parse.Minus {
			if right.Duration == minDuration {
				return InstantValue(left.Instant.Add(math.MaxInt64).Add(1)), nil
			}
			return InstantValue(left.Instant.Add(-right.Duration)), nil
		}
		return InstantValue(left.Instant.Add(right.Duration)), nil

	case left.Kind == KindDuration && right.Kind == KindInstant && sign == parse.Plus:
		return InstantValue(right.Instant.Add(left.Duration)), nil

	case left.Kind == KindDuration && right.Kind == KindDuration:
		d := right.Duration
		if sign == parse.Minus {
			if d == minDuration {
				return Value{}, fmt.Errorf("%w: %v - %v", ErrOverflow, left, right)
			}
			d = -d
		}
		sum := left.Duration + d
		if (d > 0 && sum < left.Duration) || (d < 0 && sum > left.Duration) {
			return Value{}, fmt.Errorf("%w: %v %v %v", ErrOverflow, left, sign, right)
		}
		return DurationValue(sum), nil
	}

	return Value{}, fmt.Errorf("%w: %v %v %v", ErrInvalidOperation, left.Kind, sign, right.Kind)
}

const minDuration time.Duration = -1 << 63
