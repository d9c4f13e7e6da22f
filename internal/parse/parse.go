// Package parse turns time expressions such as "now - 1d + 2h" or
// "full_day(2000-01-01T13:00:00Z) + 30m" into a tree of Nodes.
//
// Parsing is built from small backtracking matchers over an immutable
// Cursor. Alternatives are tried left to right and, when none matches, the
// failure that advanced furthest is reported.
package parse

import (
	"errors"
	"fmt"
)

// SyntaxError is a parse failure at a byte offset of the input.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parser parses complete expressions. It holds no mutable state and may be
// used from several goroutines.
type Parser struct {
	grammar *Grammar
}

// NewParser returns a Parser that accepts calls to the named functions.
// A nil slice selects DefaultFunctions.
func NewParser(functions []string) *Parser {
	return &Parser{grammar: NewGrammar(functions)}
}

var defaultParser = NewParser(nil)

// Parse parses input with the built-in function names.
func Parse(input string) (Node, error) {
	return defaultParser.Parse(input)
}

// Parse parses the whole of input as one expression. An expression followed
// by anything else is an error.
func (p *Parser) Parse(input string) (Node, error) {
	r, err := p.grammar.Match(NewCursor(input))
	if err != nil {
		var f *Failure
		if errors.As(err, &f) {
			return nil, &SyntaxError{Offset: f.Cursor.Offset(), Message: f.Message}
		}
		return nil, err
	}
	if !r.Next.AtEnd() {
		return nil, &SyntaxError{Offset: r.Next.Offset(), Message: "not all input matched"}
	}
	return r.Node, nil
}
