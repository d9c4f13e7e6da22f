package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/jparise/timecalc/internal/timeparse"
)

// Node is an element of the parse tree. The concrete types are Duration,
// Instant, Now, Literal, Sequence, SignedTerm and Call. Nodes are read-only
// once built.
type Node interface {
	fmt.Stringer
	node()
}

// Duration is a signed duration literal.
type Duration struct {
	Value time.Duration
}

// Instant is an absolute point in time with the offset it was written with.
type Instant struct {
	Value time.Time
}

// Now is the unresolved "current moment".
type Now struct{}

// Literal is a matched token. Insignificant literals (whitespace,
// punctuation) are dropped when a Sequence is finalized.
type Literal struct {
	Text        string
	Significant bool
}

// Sequence groups nodes, both for a whole expression and for the contents of
// brackets and function arguments.
type Sequence struct {
	Nodes []Node
}

// Sign is the operator in front of a SignedTerm.
type Sign int

const (
	Plus Sign = iota
	Minus
)

func (s Sign) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return fmt.Sprintf("Sign(%d)", int(s))
	}
}

// SignedTerm is one "+ term" or "- term" element following the first term of
// an expression. Term is never itself a SignedTerm.
type SignedTerm struct {
	Sign Sign
	Term Node
}

// Call applies the named function to its argument expression.
type Call struct {
	Name     string
	Argument Node
}

func (Duration) node()   {}
func (Instant) node()    {}
func (Now) node()        {}
func (Literal) node()    {}
func (Sequence) node()   {}
func (SignedTerm) node() {}
func (Call) node()       {}

func (n Duration) String() string {
	return "Duration(" + timeparse.FormatDuration(n.Value) + ")"
}

func (n Instant) String() string {
	return "Instant(" + n.Value.Format(time.RFC3339Nano) + ")"
}

func (Now) String() string {
	return "Now"
}

func (n Literal) String() string {
	if n.Significant {
		return fmt.Sprintf("Literal(%q)", n.Text)
	}
	return fmt.Sprintf("Skip(%q)", n.Text)
}

func (n Sequence) String() string {
	parts := make([]string, len(n.Nodes))
	for i, child := range n.Nodes {
		parts[i] = child.String()
	}
	return "Sequence[" + strings.Join(parts, " ") + "]"
}

func (n SignedTerm) String() string {
	return n.Sign.String() + n.Term.String()
}

func (n Call) String() string {
	return n.Name + "(" + n.Argument.String() + ")"
}

// significant reports whether n survives into the finished tree.
func significant(n Node) bool {
	switch n := n.(type) {
	case Literal:
		return n.Significant
	case Sequence:
		return len(n.Nodes) > 0
	default:
		return true
	}
}

// filterInsignificant drops insignificant literals and empty sequences.
func filterInsignificant(nodes []Node) []Node {
	filtered := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if significant(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// Collect is the conventional BuildFunc: it keeps the significant nodes and
// wraps them in a Sequence.
func Collect(nodes []Node) Node {
	return Sequence{Nodes: filterInsignificant(nodes)}
}
