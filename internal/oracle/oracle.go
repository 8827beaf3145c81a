// Package oracle is the self-contained stand-in for the external
// truth-function services spec §6 names as collaborators —
// Tv2Sop::isop and SopCube::tvfunc — consulted only by BoolDivision
// (package factor). It brute-forces a 2^N-row truth table, which is
// adequate for the N<=20 the spec treats as this oracle's working
// range (spec §1 frames Boolean division itself as "a narrow special
// case").
package oracle

import (
	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/cube"
)

// TruthFunc is a dense truth table over n variables: bit i of the
// table is the function's value at the assignment where variable v's
// value is bit v of i (variable 0 is the least significant bit of the
// row index).
type TruthFunc struct {
	n    int
	bits []uint64
}

func newTruthFunc(n int) *TruthFunc {
	rows := 1 << uint(n)
	return &TruthFunc{n: n, bits: make([]uint64, (rows+63)/64)}
}

// NumVars returns the function's variable count.
func (f *TruthFunc) NumVars() int { return f.n }

func (f *TruthFunc) get(row int) bool {
	return f.bits[row/64]&(1<<uint(row%64)) != 0
}

func (f *TruthFunc) set(row int, v bool) {
	if v {
		f.bits[row/64] |= 1 << uint(row%64)
	}
}

// Tvfunc converts a cover to its truth function — the external
// SopCube::tvfunc conversion named in spec §6.
func Tvfunc(c *cover.Cover) *TruthFunc {
	n := c.VarNum()
	f := newTruthFunc(n)
	rows := 1 << uint(n)
	cubes := c.LiteralList()
	for row := 0; row < rows; row++ {
		sat := false
		for _, lits := range cubes {
			ok := true
			for _, l := range lits {
				bit := (row >> uint(l.Var)) & 1
				want := 1
				if l.Negated {
					want = 0
				}
				if bit != want {
					ok = false
					break
				}
			}
			if ok {
				sat = true
				break
			}
		}
		f.set(row, sat)
	}
	return f
}

func (f *TruthFunc) clone() *TruthFunc {
	g := newTruthFunc(f.n)
	copy(g.bits, f.bits)
	return g
}

// Cofactor returns f restricted to variable v == val: a function over
// the same n variables that no longer depends on v.
func (f *TruthFunc) Cofactor(v bitpack.Var, val bool) *TruthFunc {
	g := newTruthFunc(f.n)
	rows := 1 << uint(f.n)
	vi := uint(v)
	forced := 0
	if val {
		forced = 1
	}
	for row := 0; row < rows; row++ {
		src := row
		if ((row >> vi) & 1) != forced {
			src = row ^ (1 << vi)
		}
		g.set(row, f.get(src))
	}
	return g
}

// And, Or, Not, AndNot are the Boolean set operations ISOP recurses
// with.
func (f *TruthFunc) And(other *TruthFunc) *TruthFunc { return f.combine(other, func(a, b bool) bool { return a && b }) }
func (f *TruthFunc) Or(other *TruthFunc) *TruthFunc  { return f.combine(other, func(a, b bool) bool { return a || b }) }
func (f *TruthFunc) AndNot(other *TruthFunc) *TruthFunc {
	return f.combine(other, func(a, b bool) bool { return a && !b })
}

func (f *TruthFunc) combine(other *TruthFunc, op func(a, b bool) bool) *TruthFunc {
	g := newTruthFunc(f.n)
	rows := 1 << uint(f.n)
	for row := 0; row < rows; row++ {
		g.set(row, op(f.get(row), other.get(row)))
	}
	return g
}

// IsZero reports whether f is the constant-false function.
func (f *TruthFunc) IsZero() bool {
	for _, w := range f.bits {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsAllOnes reports whether f is the constant-true function.
func (f *TruthFunc) IsAllOnes() bool {
	rows := 1 << uint(f.n)
	for row := 0; row < rows; row++ {
		if !f.get(row) {
			return false
		}
	}
	return true
}

// topVar returns the lowest-indexed variable f or d actually depends
// on (their positive and negative cofactors differ), or -1 if neither
// does (meaning f and d are both already constant).
func topVar(f, d *TruthFunc) int {
	for v := 0; v < f.n; v++ {
		f0, f1 := f.Cofactor(bitpack.Var(v), false), f.Cofactor(bitpack.Var(v), true)
		if !equalFunc(f0, f1) {
			return v
		}
		d0, d1 := d.Cofactor(bitpack.Var(v), false), d.Cofactor(bitpack.Var(v), true)
		if !equalFunc(d0, d1) {
			return v
		}
	}
	return -1
}

func equalFunc(a, b *TruthFunc) bool {
	for i := range a.bits {
		if a.bits[i] != b.bits[i] {
			return false
		}
	}
	return true
}

// Isop computes an irredundant cover g with onset ⊆ g ⊆ onset∪dc —
// spec §6's Tv2Sop::isop, implemented as the classical recursive
// Shannon-cofactor ISOP algorithm (Minato/Coudert-Madre): split on a
// variable that either function depends on, solve the three
// sub-problems forced-0, forced-1, and don't-care-shared, and
// recombine with literal products and a cover sum.
func Isop(onset, dc *TruthFunc) (*cover.Cover, error) {
	if onset.n != dc.n {
		return nil, errShape(onset.n, dc.n)
	}
	return isop(onset, dc)
}

func isop(f, d *TruthFunc) (*cover.Cover, error) {
	n := f.n
	if f.IsZero() {
		return cover.Empty(n), nil
	}
	if f.Or(d).IsAllOnes() {
		return cover.FromCube(cube.Empty(n)), nil
	}
	v := topVar(f, d)
	if v < 0 {
		// f and d are both constant and neither base case matched;
		// can only happen if f is constant-true, already handled above.
		return cover.Empty(n), nil
	}
	vv := bitpack.Var(v)
	f0, f1 := f.Cofactor(vv, false), f.Cofactor(vv, true)
	d0, d1 := d.Cofactor(vv, false), d.Cofactor(vv, true)

	g0cov, err := isop(f0.AndNot(d1), d0)
	if err != nil {
		return nil, err
	}
	g1cov, err := isop(f1.AndNot(d0), d1)
	if err != nil {
		return nil, err
	}
	hOn := f0.Or(f1).AndNot(Tvfunc(g0cov).Or(Tvfunc(g1cov)))
	hcov, err := isop(hOn, d0.And(d1))
	if err != nil {
		return nil, err
	}

	notX, err := cover.ProductLiteral(g0cov, bitpack.Literal{Var: vv, Negated: true})
	if err != nil {
		return nil, err
	}
	yesX, err := cover.ProductLiteral(g1cov, bitpack.Literal{Var: vv, Negated: false})
	if err != nil {
		return nil, err
	}
	sum1, err := cover.Sum(notX, yesX)
	if err != nil {
		return nil, err
	}
	return cover.Sum(sum1, hcov)
}

type shapeErr struct{ a, b int }

func (e shapeErr) Error() string { return "oracle: variable count mismatch" }
func errShape(a, b int) error    { return shapeErr{a, b} }
