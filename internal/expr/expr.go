// Package expr provides the Expr collaborator spec §4.9/§6 describes
// as external to the algebra core: a small factored-form expression
// tree (AND/OR/literal/const), plus ExprSink, the thin adaptor Factor
// emits through so the expression representation can change without
// touching package factor.
package expr

import (
	"sort"
	"strings"

	"algcore/internal/bitpack"
)

// Kind is an Expr node's operator.
type Kind int

const (
	KindZero Kind = iota
	KindOne
	KindLiteral
	KindAnd
	KindOr
)

// Expr is a node in a factored Boolean expression: a nested AND/OR
// tree over literals, with no SOP flattening implied.
type Expr struct {
	Kind     Kind
	Literal  bitpack.Literal
	Children []*Expr
}

// Zero is the constant false expression.
func Zero() *Expr { return &Expr{Kind: KindZero} }

// One is the constant true expression (the empty cube / tautology).
func One() *Expr { return &Expr{Kind: KindOne} }

// Lit wraps a single literal as an expression.
func Lit(l bitpack.Literal) *Expr { return &Expr{Kind: KindLiteral, Literal: l} }

// And builds a conjunction. Zero arguments is One (the AND identity);
// one argument returns it unchanged.
func And(children ...*Expr) *Expr {
	if len(children) == 0 {
		return One()
	}
	if len(children) == 1 {
		return children[0]
	}
	return &Expr{Kind: KindAnd, Children: children}
}

// Or builds a disjunction. Zero arguments is Zero (the OR identity);
// one argument returns it unchanged.
func Or(children ...*Expr) *Expr {
	if len(children) == 0 {
		return Zero()
	}
	if len(children) == 1 {
		return children[0]
	}
	return &Expr{Kind: KindOr, Children: children}
}

// BinAnd is the binary & operator: e & other.
func (e *Expr) BinAnd(other *Expr) *Expr { return And(e, other) }

// BinOr is the binary | operator: e | other.
func (e *Expr) BinOr(other *Expr) *Expr { return Or(e, other) }

// Xor is the binary ^ operator, expanded in terms of AND/OR/NOT since
// the expression representation has no native XOR node:
// e^other == (e & !other) | (!e & other).
func (e *Expr) Xor(other *Expr) *Expr {
	return Or(And(e, other.Not()), And(e.Not(), other))
}

// Not is the unary ~ operator. Negating a literal flips its polarity;
// negating AND/OR distributes via De Morgan; negating a constant
// swaps it.
func (e *Expr) Not() *Expr {
	switch e.Kind {
	case KindZero:
		return One()
	case KindOne:
		return Zero()
	case KindLiteral:
		return Lit(bitpack.Literal{Var: e.Literal.Var, Negated: !e.Literal.Negated})
	case KindAnd:
		neg := make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			neg[i] = c.Not()
		}
		return Or(neg...)
	case KindOr:
		neg := make([]*Expr, len(e.Children))
		for i, c := range e.Children {
			neg[i] = c.Not()
		}
		return And(neg...)
	default:
		return e
	}
}

// LiteralCount returns the number of literal leaves in the expression
// tree — the measure factored-form quality is judged by (spec §8
// scenario 6).
func (e *Expr) LiteralCount() int {
	switch e.Kind {
	case KindLiteral:
		return 1
	case KindAnd, KindOr:
		n := 0
		for _, c := range e.Children {
			n += c.LiteralCount()
		}
		return n
	default:
		return 0
	}
}

// String renders the expression as an s-expression, e.g.
// "(or (and x0 x1) x2)", primarily for debugging and for
// internal/factorsvc's wire format.
func (e *Expr) String() string {
	switch e.Kind {
	case KindZero:
		return "0"
	case KindOne:
		return "1"
	case KindLiteral:
		return e.Literal.String()
	case KindAnd, KindOr:
		op := "and"
		if e.Kind == KindOr {
			op = "or"
		}
		parts := make([]string, len(e.Children))
		for i, c := range e.Children {
			parts[i] = c.String()
		}
		sort.Strings(parts)
		return "(" + op + " " + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}

// Sink is the thin adaptor Factor emits through (spec §4.9): isolates
// Factor from direct Expr construction so the expression
// representation can vary independently.
type Sink struct{}

func (Sink) Zero() *Expr                  { return Zero() }
func (Sink) One() *Expr                   { return One() }
func (Sink) Literal(l bitpack.Literal) *Expr { return Lit(l) }
func (Sink) And(cs ...*Expr) *Expr         { return And(cs...) }
func (Sink) Or(cs ...*Expr) *Expr          { return Or(cs...) }
