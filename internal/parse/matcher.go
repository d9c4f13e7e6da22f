package parse

import (
	"errors"
	"fmt"
	"strings"
)

// Result is a successful match: the node produced and the cursor just past
// the consumed input.
type Result struct {
	Next Cursor
	Node Node
}

// Failure is a failed match. Cursor records where matching stopped and is
// used both for diagnostics and for choosing between alternatives.
type Failure struct {
	Cursor  Cursor
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("offset %d: %s", f.Cursor.Offset(), f.Message)
}

func fail(c Cursor, format string, args ...any) (Result, error) {
	return Result{}, &Failure{Cursor: c, Message: fmt.Sprintf(format, args...)}
}

// failureAt returns the cursor of a *Failure, or fallback for any other error.
func failureAt(err error, fallback Cursor) Cursor {
	var f *Failure
	if errors.As(err, &f) {
		return f.Cursor
	}
	return fallback
}

// Matcher matches a prefix of the input at a cursor. A non-nil error is
// always a *Failure.
type Matcher interface {
	Match(c Cursor) (Result, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(c Cursor) (Result, error)

// Match calls f(c).
func (f MatcherFunc) Match(c Cursor) (Result, error) {
	return f(c)
}

// BuildFunc turns the nodes produced by a SequenceOf into a single node.
type BuildFunc func(nodes []Node) Node

// Lit matches text exactly.
func Lit(text string, significant bool) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		if !strings.HasPrefix(c.Remaining(), text) {
			return fail(c, "expected %q", text)
		}
		return Result{
			Next: c.Advance(len(text)),
			Node: Literal{Text: text, Significant: significant},
		}, nil
	})
}

// Token matches text and produces n instead of a Literal.
func Token(text string, n Node) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		if !strings.HasPrefix(c.Remaining(), text) {
			return fail(c, "expected %q", text)
		}
		return Result{Next: c.Advance(len(text)), Node: n}, nil
	})
}

// AnyLit matches the first of texts that prefixes the input.
func AnyLit(texts []string, significant bool) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		rest := c.Remaining()
		for _, text := range texts {
			if strings.HasPrefix(rest, text) {
				return Result{
					Next: c.Advance(len(text)),
					Node: Literal{Text: text, Significant: significant},
				}, nil
			}
		}
		return fail(c, "expected one of %q", texts)
	})
}

// Whitespace consumes a run of spaces. If required is set, at least one
// space must be present.
func Whitespace(required bool) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		rest := c.Remaining()
		n := len(rest) - len(strings.TrimLeft(rest, " "))
		if required && n == 0 {
			return fail(c, "expected whitespace")
		}
		return Result{
			Next: c.Advance(n),
			Node: Literal{Text: rest[:n], Significant: false},
		}, nil
	})
}

// SequenceOf applies matchers one after another and passes every produced
// node, insignificant ones included, to build. If any matcher fails the
// whole sequence fails at the cursor where it started, so that an enclosing
// FirstOf can try the next alternative from a clean position.
func SequenceOf(build BuildFunc, matchers ...Matcher) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		nodes := make([]Node, 0, len(matchers))
		next := c
		for _, m := range matchers {
			r, err := m.Match(next)
			if err != nil {
				var f *Failure
				if errors.As(err, &f) {
					return fail(c, "%s", f.Message)
				}
				return Result{}, err
			}
			nodes = append(nodes, r.Node)
			next = r.Next
		}
		return Result{Next: next, Node: build(nodes)}, nil
	})
}

// FirstOf returns the first successful match among matchers. When all of
// them fail, the failure that got furthest into the input is reported; on a
// tie the earliest alternative wins.
func FirstOf(matchers ...Matcher) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		best := c
		found := false
		for _, m := range matchers {
			r, err := m.Match(c)
			if err == nil {
				return r, nil
			}
			at := failureAt(err, c)
			if !found || at.Offset() > best.Offset() {
				best = at
				found = true
			}
		}
		return fail(best, "none of the parsers matched")
	})
}

// ZeroOrMoreAsSequence applies m repeatedly until it fails and returns the
// produced nodes as a Sequence. It never fails. A match that consumes no
// input ends the repetition.
func ZeroOrMoreAsSequence(m Matcher) Matcher {
	return MatcherFunc(func(c Cursor) (Result, error) {
		var nodes []Node
		next := c
		for {
			r, err := m.Match(next)
			if err != nil {
				break
			}
			nodes = append(nodes, r.Node)
			if r.Next.Offset() == next.Offset() {
				break
			}
			next = r.Next
		}
		return Result{Next: next, Node: Sequence{Nodes: nodes}}, nil
	})
}
