// Package cube implements CubeOps: an owning single-cube type built on
// package bitpack.
package cube

import (
	"fmt"
	"sort"
	"strings"

	"algcore/internal/bitpack"
)

// Cube is a conjunction of literals over a fixed variable count.
type Cube struct {
	varNum int
	body   []uint64
	valid  bool
}

// Empty constructs the all-don't-care cube (the tautology) over n
// variables.
func Empty(n int) *Cube {
	return &Cube{varNum: n, body: make([]uint64, bitpack.NumWords(n)), valid: true}
}

// FromLiteral constructs a single-literal cube.
func FromLiteral(n int, lit bitpack.Literal) *Cube {
	return FromLiterals(n, []bitpack.Literal{lit})
}

// FromLiterals constructs a cube from a literal list. Duplicate
// literals are accepted idempotently. A contradiction (both polarities
// of the same variable) clears the cube to empty and marks it invalid
// — the adopted behaviour for the §4.2 open question, recorded in
// DESIGN.md.
func FromLiterals(n int, lits []bitpack.Literal) *Cube {
	c := Empty(n)
	for _, l := range lits {
		if !bitpack.SetLiteral(c.body, l) {
			bitpack.Clear(c.body)
			c.valid = false
			return c
		}
	}
	return c
}

// fromBody wraps a caller-owned body directly. Used internally by
// package cover, which writes cube bodies in place inside a shared
// chunk and hands out Cube views over slices of it.
func fromBody(n int, body []uint64) *Cube {
	return &Cube{varNum: n, body: body, valid: !bitpack.HasConflict(body)}
}

// View returns a Cube wrapping an existing word slice without copying,
// for use by package cover when iterating a chunk.
func View(n int, body []uint64) *Cube { return fromBody(n, body) }

// Valid reports whether the cube is free of conflicts. A cube that
// compares equal to the all-X cube (Valid()==true, VarNum no literals)
// is the tautology; an invalid cube is the caller's signal to treat it
// as empty (per the adopted §4.2 behaviour).
func (c *Cube) Valid() bool { return c.valid }

// VarNum returns the cube's declared variable count.
func (c *Cube) VarNum() int { return c.varNum }

// Body returns the packed word slice backing c. Callers must not
// retain it past c's lifetime if c wraps a shared chunk.
func (c *Cube) Body() []uint64 { return c.body }

// GetPat extracts the pattern for variable v.
func (c *Cube) GetPat(v bitpack.Var) bitpack.Pattern { return bitpack.GetPat(c.body, v) }

// LiteralNum returns the cube's literal count.
func (c *Cube) LiteralNum() int { return bitpack.LiteralCount(c.body) }

// LiteralList returns the cube's literals in ascending variable order.
func (c *Cube) LiteralList() []bitpack.Literal {
	var out []bitpack.Literal
	for v := 0; v < c.varNum; v++ {
		switch c.GetPat(bitpack.Var(v)) {
		case bitpack.PatPositive:
			out = append(out, bitpack.Literal{Var: bitpack.Var(v)})
		case bitpack.PatNegative:
			out = append(out, bitpack.Literal{Var: bitpack.Var(v), Negated: true})
		}
	}
	return out
}

// Product returns c*other, or nil if the two cubes conflict.
func (c *Cube) Product(other *Cube) *Cube {
	dst := Empty(c.varNum)
	if !bitpack.Product(dst.body, c.body, other.body) {
		return nil
	}
	return dst
}

// ProductLiteral returns c*lit, or nil if lit contradicts c.
func (c *Cube) ProductLiteral(lit bitpack.Literal) *Cube {
	return c.Product(FromLiteral(c.varNum, lit))
}

// Quotient returns c/other, or nil if c is not divisible by other.
func (c *Cube) Quotient(other *Cube) *Cube {
	dst := Empty(c.varNum)
	if !bitpack.Quotient(dst.body, c.body, other.body) {
		return nil
	}
	return dst
}

// Cofactor returns c's cofactor with respect to lit, or nil if c
// disagrees with lit.
func (c *Cube) Cofactor(lit bitpack.Literal) *Cube {
	dst := Empty(c.varNum)
	if !bitpack.Cofactor(dst.body, c.body, lit) {
		return nil
	}
	return dst
}

// Contains reports whether every literal of other is a literal of c.
func (c *Cube) Contains(other *Cube) bool { return bitpack.Contains(c.body, other.body) }

// Intersects reports whether c and other share a literal.
func (c *Cube) Intersects(other *Cube) bool { return bitpack.Intersects(c.body, other.body) }

// Compare implements the canonical word-lexicographic order.
func (c *Cube) Compare(other *Cube) int { return bitpack.Compare(c.body, other.body) }

// Hash is a stable 16-bit XOR fold over all words.
func (c *Cube) Hash() uint16 { return bitpack.Hash(c.body) }

// String renders the cube as a product of literals, e.g. "x0!x2", or
// "1" for the tautology.
func (c *Cube) String() string {
	lits := c.LiteralList()
	if len(lits) == 0 {
		return "1"
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i].Var < lits[j].Var })
	var sb strings.Builder
	for _, l := range lits {
		sb.WriteString(fmt.Sprint(l))
	}
	return sb.String()
}
