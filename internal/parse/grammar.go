package parse

import (
	"fmt"

	"github.com/jparise/timecalc/internal/timeparse"
)

// DefaultFunctions are the names of the built-in functions.
var DefaultFunctions = []string{"full_day", "full_hour"}

// Grammar is the expression grammar:
//
//	expr     := ws0 term (ws1 sign ws1 term)* ws0
//	term     := instant | "now" | duration | timestamp | call | "(" ws0 expr ws0 ")"
//	sign     := "+" | "-"
//	call     := name "(" expr ")"
//
// The order of the term alternatives matters: durations are tried before
// timestamps so that "1s" is not read as the timestamp "1" followed by
// garbage.
type Grammar struct {
	expr Matcher
}

// NewGrammar builds the grammar. functions lists the names accepted in call
// position; nil means DefaultFunctions.
func NewGrammar(functions []string) *Grammar {
	if functions == nil {
		functions = DefaultFunctions
	}

	g := &Grammar{}
	// Brackets and calls recurse into expr, which is only known once built.
	expr := MatcherFunc(func(c Cursor) (Result, error) {
		return g.expr.Match(c)
	})

	ws0 := Whitespace(false)
	ws1 := Whitespace(true)
	sign := AnyLit([]string{"+", "-"}, false)

	group := SequenceOf(unwrap,
		Lit("(", false), ws0, expr, ws0, Lit(")", false))
	call := SequenceOf(buildCall,
		AnyLit(functions, true), Lit("(", false), expr, Lit(")", false))

	term := FirstOf(
		MatcherFunc(matchInstant),
		Token("now", Now{}),
		MatcherFunc(matchDuration),
		MatcherFunc(matchTimestamp),
		call,
		group,
	)

	signedTerm := SequenceOf(buildSignedTerm, ws1, sign, ws1, term)

	g.expr = SequenceOf(buildExpr,
		ws0, term, ZeroOrMoreAsSequence(signedTerm), ws0)
	return g
}

// Match matches an expression at c without requiring the whole input to be
// consumed.
func (g *Grammar) Match(c Cursor) (Result, error) {
	return g.expr.Match(c)
}

func matchInstant(c Cursor) (Result, error) {
	t, n, err := timeparse.MatchInstant(c.Remaining())
	if err != nil {
		return fail(c, "%v", err)
	}
	return Result{Next: c.Advance(n), Node: Instant{Value: t}}, nil
}

func matchDuration(c Cursor) (Result, error) {
	d, n, err := timeparse.MatchDuration(c.Remaining())
	if err != nil {
		return fail(c, "did not match any duration")
	}
	return Result{Next: c.Advance(n), Node: Duration{Value: d}}, nil
}

func matchTimestamp(c Cursor) (Result, error) {
	t, n, err := timeparse.MatchTimestamp(c.Remaining())
	if err != nil {
		return fail(c, "%v", err)
	}
	return Result{Next: c.Advance(n), Node: Instant{Value: t}}, nil
}

// buildExpr collects the first term and splices in the signed terms that
// follow it, giving Sequence[term, SignedTerm...].
func buildExpr(nodes []Node) Node {
	var flat []Node
	for _, n := range filterInsignificant(nodes) {
		if tail, ok := n.(Sequence); ok && isSignedTerms(tail) {
			flat = append(flat, tail.Nodes...)
			continue
		}
		flat = append(flat, n)
	}
	return Sequence{Nodes: flat}
}

func isSignedTerms(s Sequence) bool {
	for _, n := range s.Nodes {
		if _, ok := n.(SignedTerm); !ok {
			return false
		}
	}
	return true
}

// buildSignedTerm pairs the sign literal with the single surviving node.
func buildSignedTerm(nodes []Node) Node {
	var (
		sign    Sign
		hasSign bool
	)
	for _, n := range nodes {
		if lit, ok := n.(Literal); ok && !hasSign {
			switch lit.Text {
			case "+":
				sign, hasSign = Plus, true
			case "-":
				sign, hasSign = Minus, true
			}
		}
	}
	if !hasSign {
		panic(fmt.Sprintf("parse: no sign among signed term nodes %v", nodes))
	}

	rest := filterInsignificant(nodes)
	if len(rest) != 1 {
		panic(fmt.Sprintf("parse: signed term must have exactly one operand, got %v", rest))
	}
	if _, ok := rest[0].(SignedTerm); ok {
		panic(fmt.Sprintf("parse: nested signed term %v", rest[0]))
	}
	return SignedTerm{Sign: sign, Term: rest[0]}
}

// unwrap returns the single surviving node of a bracketed group.
func unwrap(nodes []Node) Node {
	rest := filterInsignificant(nodes)
	if len(rest) != 1 {
		panic(fmt.Sprintf("parse: group must have exactly one expression, got %v", rest))
	}
	return rest[0]
}

func buildCall(nodes []Node) Node {
	rest := filterInsignificant(nodes)
	if len(rest) != 2 {
		panic(fmt.Sprintf("parse: call must have a name and one argument, got %v", rest))
	}
	name, ok := rest[0].(Literal)
	if !ok {
		panic(fmt.Sprintf("parse: call name is %v, not a literal", rest[0]))
	}
	return Call{Name: name.Text, Argument: rest[1]}
}
