// Package cover implements CoverStore, the canonicalising Sorter, and
// CoverOps: the owning cover type and the algebraic operations over
// it. A Cover owns a flat chunk of packed words (see package bitpack)
// holding its cubes concatenated in canonical order.
package cover

import (
	"bytes"
	"fmt"
	"io"

	"algcore/internal/algerr"
	"algcore/internal/bitpack"
	"algcore/internal/cube"
)

// Cover is a disjunction of cubes (a sum-of-products) over a fixed
// variable count, always held in canonical order: cubes sorted
// strictly descending under bitpack.Compare, no duplicates, and (for
// covers the core itself produces) no cube contained in another.
type Cover struct {
	varNum  int
	w       int // words per cube, bitpack.NumWords(varNum)
	cubeNum int
	chunk   []uint64 // len == cubeNum*w; cap may exceed for amortised growth
}

// Empty constructs the zero cover (no cubes) over n variables.
func Empty(n int) *Cover {
	return &Cover{varNum: n, w: bitpack.NumWords(n)}
}

// New constructs a cover from a list of literal lists, sorting and
// deduplicating into canonical form via Sorter. A literal naming a
// variable >= varNum is a domain error. A literal list holding both
// polarities of a variable is an empty product and contributes no cube.
func New(varNum int, cubes [][]bitpack.Literal) (*Cover, error) {
	w := bitpack.NumWords(varNum)
	chunk := make([]uint64, len(cubes)*w)
	k := 0
	for _, lits := range cubes {
		for _, l := range lits {
			if int(l.Var) < 0 || int(l.Var) >= varNum {
				return nil, algerr.Range("literal variable", int(l.Var), varNum)
			}
		}
		c := cube.FromLiterals(varNum, lits)
		if !c.Valid() {
			continue
		}
		copy(chunk[k*w:(k+1)*w], c.Body())
		k++
	}
	n := canonicalize(chunk, w, k)
	return &Cover{varNum: varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// FromCube promotes a single cube to a one-cube cover.
func FromCube(c *cube.Cube) *Cover {
	cov := &Cover{varNum: c.VarNum(), w: bitpack.NumWords(c.VarNum()), cubeNum: 1}
	cov.chunk = append([]uint64(nil), c.Body()...)
	return cov
}

// VarNum returns the cover's declared variable count.
func (c *Cover) VarNum() int { return c.varNum }

// CubeNum returns the number of cubes in the cover.
func (c *Cover) CubeNum() int { return c.cubeNum }

func (c *Cover) cubeBody(i int) []uint64 {
	return c.chunk[i*c.w : (i+1)*c.w]
}

// GetCube returns a read-only view of the i'th cube, in canonical
// order. It does not range-check i: an out-of-range index panics. Use
// CheckedCube for an accessor that returns a RangeError instead.
func (c *Cover) GetCube(i int) *cube.Cube {
	return cube.View(c.varNum, c.cubeBody(i))
}

// CheckedCube is GetCube with explicit range checking, per spec §7's
// range-error requirement at the boundary.
func (c *Cover) CheckedCube(i int) (*cube.Cube, error) {
	if i < 0 || i >= c.cubeNum {
		return nil, algerr.Range("cube index", i, c.cubeNum)
	}
	return c.GetCube(i), nil
}

// GetPat extracts the pattern of variable v in the i'th cube.
func (c *Cover) GetPat(i int, v bitpack.Var) (bitpack.Pattern, error) {
	if i < 0 || i >= c.cubeNum {
		return 0, algerr.Range("cube index", i, c.cubeNum)
	}
	if int(v) < 0 || int(v) >= c.varNum {
		return 0, algerr.Range("variable", int(v), c.varNum)
	}
	return bitpack.GetPat(c.cubeBody(i), v), nil
}

// LiteralNum returns the cover's total literal count, summed over all
// cubes.
func (c *Cover) LiteralNum() int {
	n := 0
	for i := 0; i < c.cubeNum; i++ {
		n += bitpack.LiteralCount(c.cubeBody(i))
	}
	return n
}

// LiteralFreq returns the number of cubes in which lit appears — the
// literal frequency used by KernelGen's ordering (spec §4.7).
func (c *Cover) LiteralFreq(lit bitpack.Literal) int {
	want := bitpack.PatternOf(lit)
	n := 0
	for i := 0; i < c.cubeNum; i++ {
		if bitpack.GetPat(c.cubeBody(i), lit.Var) == want {
			n++
		}
	}
	return n
}

// LiteralList returns the cover's cubes as literal lists, in canonical
// cube order.
func (c *Cover) LiteralList() [][]bitpack.Literal {
	out := make([][]bitpack.Literal, c.cubeNum)
	for i := 0; i < c.cubeNum; i++ {
		out[i] = c.GetCube(i).LiteralList()
	}
	return out
}

// CommonCube returns the largest cube contained in every cube of c:
// the word-wise AND of all cubes, short-circuiting the moment the
// running result becomes all-don't-care (empty).
func (c *Cover) CommonCube() *cube.Cube {
	cc := cube.Empty(c.varNum)
	if c.cubeNum == 0 {
		return cc
	}
	body := cc.Body()
	copy(body, c.cubeBody(0))
	for i := 1; i < c.cubeNum; i++ {
		allX := true
		other := c.cubeBody(i)
		for j := range body {
			body[j] &= other[j]
			if body[j] != 0 {
				allX = false
			}
		}
		if allX {
			break
		}
	}
	return cc
}

// Compare implements the lexicographic cube-by-cube total order on
// canonical covers: compare cubes pairwise in canonical order; the
// shorter cover, if a strict prefix of the longer, sorts first.
func (c *Cover) Compare(other *Cover) int {
	n := c.cubeNum
	if other.cubeNum < n {
		n = other.cubeNum
	}
	for i := 0; i < n; i++ {
		if d := bitpack.Compare(c.cubeBody(i), other.cubeBody(i)); d != 0 {
			return d
		}
	}
	switch {
	case c.cubeNum < other.cubeNum:
		return -1
	case c.cubeNum > other.cubeNum:
		return 1
	default:
		return 0
	}
}

// Hash is an XOR fold of every cube's 16-bit hash, bucketed so it
// agrees with Compare: equal covers always hash equal (required by
// package kernel's hash-keyed result table).
func (c *Cover) Hash() uint16 {
	var h uint16
	for i := 0; i < c.cubeNum; i++ {
		h ^= c.GetCube(i).Hash()
	}
	return h
}

// Print writes the cover as a sum of products, one term per cube,
// joined by " + ". varNames, if non-nil, supplies a display name per
// variable; otherwise variables print as x0, x1, ….
func (c *Cover) Print(w io.Writer, varNames []string) error {
	if c.cubeNum == 0 {
		_, err := io.WriteString(w, "0")
		return err
	}
	var buf bytes.Buffer
	for i := 0; i < c.cubeNum; i++ {
		if i > 0 {
			buf.WriteString(" + ")
		}
		lits := c.GetCube(i).LiteralList()
		if len(lits) == 0 {
			buf.WriteString("1")
			continue
		}
		for _, l := range lits {
			name := fmt.Sprintf("x%d", l.Var)
			if varNames != nil && int(l.Var) < len(varNames) {
				name = varNames[l.Var]
			}
			if l.Negated {
				buf.WriteString("!")
			}
			buf.WriteString(name)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}
