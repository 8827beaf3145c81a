// Package factor implements GenFactor (spec §4.8): a recursive
// multi-level factoring driver parameterised on a Divisor and a
// Divider strategy, plus the three concrete instantiations QuickFactor,
// GoodFactor and BoolFactor.
package factor

import (
	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/expr"
	"algcore/internal/kernel"
)

// Divisor proposes a divisor cover for F. An empty result (nil or
// zero cubes) tells GenFactor to stop recursing and flatten F.
type Divisor interface {
	Divide(f *cover.Cover) (*cover.Cover, error)
}

// Divider computes Q and R such that F = Q*D + R algebraically, or a
// Boolean improvement of that relation.
type Divider interface {
	Divide(f, d *cover.Cover) (q, r *cover.Cover, err error)
}

// DivisorFunc adapts a plain function to Divisor.
type DivisorFunc func(f *cover.Cover) (*cover.Cover, error)

func (fn DivisorFunc) Divide(f *cover.Cover) (*cover.Cover, error) { return fn(f) }

// DividerFunc adapts a plain function to Divider.
type DividerFunc func(f, d *cover.Cover) (*cover.Cover, *cover.Cover, error)

func (fn DividerFunc) Divide(f, d *cover.Cover) (*cover.Cover, *cover.Cover, error) { return fn(f, d) }

// OneLevel0Kernel is the Divisor that repeatedly divides F by any
// literal occurring >= 2 times, making each quotient cube-free, until
// no literal occurs twice — a single level-0 kernel, the cheap divisor
// QuickFactor uses.
var OneLevel0Kernel DivisorFunc = oneLevel0Kernel

func oneLevel0Kernel(f *cover.Cover) (*cover.Cover, error) {
	cur := f
	n := f.VarNum()
	for {
		l, ok := anyRepeatedLiteral(cur, n)
		if !ok {
			break
		}
		q, err := cover.AlgDivLiteral(cur, l)
		if err != nil || q.CubeNum() == 0 {
			break
		}
		if cc := q.CommonCube(); cc.LiteralNum() > 0 {
			q, err = cover.AlgDivCube(q, cc)
			if err != nil {
				break
			}
		}
		cur = q
	}
	if cur == f || cur.CubeNum() == 0 {
		return cover.Empty(n), nil
	}
	return cur, nil
}

// anyRepeatedLiteral returns the first literal (in ascending
// variable, positive-before-negative order) occurring >= 2 times in f.
func anyRepeatedLiteral(f *cover.Cover, n int) (bitpack.Literal, bool) {
	for v := 0; v < n; v++ {
		for _, neg := range [2]bool{false, true} {
			l := bitpack.Literal{Var: bitpack.Var(v), Negated: neg}
			if f.LiteralFreq(l) >= 2 {
				return l, true
			}
		}
	}
	return bitpack.Literal{}, false
}

// BestKernel is the Divisor that enumerates every kernel with package
// kernel and picks the highest scoring one under eval (DefaultEvaluator
// if eval is nil). When that kernel is f itself it returns the empty
// cover, since dividing f by itself makes no progress.
func BestKernel(eval kernel.Evaluator) Divisor {
	return DivisorFunc(func(f *cover.Cover) (*cover.Cover, error) {
		k, err := kernel.Best(f, eval)
		if err != nil || k.Compare(f) != 0 {
			return k, err
		}
		return cover.Empty(f.VarNum()), nil
	})
}

// WeakDivision is the algebraic Divider: Q := algdiv(F, D), R := F - Q*D.
var WeakDivision DividerFunc = weakDivision

func weakDivision(f, d *cover.Cover) (*cover.Cover, *cover.Cover, error) {
	q, err := cover.AlgDiv(f, d)
	if err != nil {
		return nil, nil, err
	}
	qd, err := cover.Product(q, d)
	if err != nil {
		return nil, nil, err
	}
	r, err := cover.Diff(f, qd)
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}

// genFactor is the package-private recursive driver parameterised on
// divisor and divider; sink builds the resulting Expr.
type genFactor struct {
	divisor Divisor
	divider Divider
	sink    expr.Sink
}

// Run factors f per spec §4.8's recursive driver.
func (g *genFactor) Run(f *cover.Cover) (*expr.Expr, error) {
	if f.CubeNum() == 0 {
		return g.sink.Zero(), nil
	}
	d, err := g.divisor.Divide(f)
	if err != nil {
		return nil, err
	}
	if d == nil || d.CubeNum() == 0 {
		return coverToExpr(f, g.sink), nil
	}
	q, r, err := g.divider.Divide(f, d)
	if err != nil {
		return nil, err
	}
	if q == nil || q.LiteralNum() == 0 {
		fd, err := g.Run(d)
		if err != nil {
			return nil, err
		}
		fr, err := g.Run(r)
		if err != nil {
			return nil, err
		}
		return expr.Or(fd, fr), nil
	}
	if q.CubeNum() == 1 {
		lits, err := q.CheckedCube(0)
		if err != nil {
			return nil, err
		}
		return g.literalFactor(f, lits.LiteralList())
	}

	cc := q.CommonCube()
	q1, err := cover.AlgDivCube(q, cc)
	if err != nil {
		return nil, err
	}
	d1, r1, err := g.divider.Divide(f, q1)
	if err != nil {
		return nil, err
	}
	cc1 := d1.CommonCube()
	if cc1.LiteralNum() == 0 {
		fq1, err := g.Run(q1)
		if err != nil {
			return nil, err
		}
		fd1, err := g.Run(d1)
		if err != nil {
			return nil, err
		}
		fr1, err := g.Run(r1)
		if err != nil {
			return nil, err
		}
		return expr.Or(expr.And(fq1, fd1), fr1), nil
	}
	return g.literalFactor(f, cc1.LiteralList())
}

// literalFactor picks, from lits, the literal with the highest
// occurrence count in f, and recurses on the algebraic quotient and
// remainder by that single literal.
func (g *genFactor) literalFactor(f *cover.Cover, lits []bitpack.Literal) (*expr.Expr, error) {
	best := lits[0]
	bestFreq := f.LiteralFreq(best)
	for _, l := range lits[1:] {
		if freq := f.LiteralFreq(l); freq > bestFreq {
			best, bestFreq = l, freq
		}
	}
	q, err := cover.AlgDivLiteral(f, best)
	if err != nil {
		return nil, err
	}
	ql, err := cover.ProductLiteral(q, best)
	if err != nil {
		return nil, err
	}
	r, err := cover.Diff(f, ql)
	if err != nil {
		return nil, err
	}
	fq, err := g.Run(q)
	if err != nil {
		return nil, err
	}
	fr, err := g.Run(r)
	if err != nil {
		return nil, err
	}
	return expr.Or(expr.And(fq, g.sink.Literal(best)), fr), nil
}

// coverToExpr flattens a cover into an OR-of-ANDs Expr with no
// factoring: the terminal case when Divisor finds nothing to divide
// by. An empty cover is zero(); the tautology cube (no literals) is
// one().
func coverToExpr(f *cover.Cover, sink expr.Sink) *expr.Expr {
	if f.CubeNum() == 0 {
		return sink.Zero()
	}
	terms := make([]*expr.Expr, f.CubeNum())
	for i, lits := range f.LiteralList() {
		if len(lits) == 0 {
			terms[i] = sink.One()
			continue
		}
		factors := make([]*expr.Expr, len(lits))
		for j, l := range lits {
			factors[j] = sink.Literal(l)
		}
		terms[i] = sink.And(factors...)
	}
	return sink.Or(terms...)
}

// QuickFactor runs GenFactor with OneLevel0Kernel and WeakDivision —
// the cheap, fully self-contained factoriser (spec §4.8, scenario 5).
func QuickFactor(f *cover.Cover) (*expr.Expr, error) {
	g := &genFactor{divisor: OneLevel0Kernel, divider: WeakDivision}
	return g.Run(f)
}

// GoodFactor runs GenFactor with BestKernel(nil) and WeakDivision —
// slower but finds smaller factored forms (spec §4.8, scenario 6).
func GoodFactor(f *cover.Cover) (*expr.Expr, error) {
	g := &genFactor{divisor: BestKernel(nil), divider: WeakDivision}
	return g.Run(f)
}

// BoolFactor runs GenFactor with BestKernel(nil) and BoolDivision —
// the Boolean-division variant that consults package oracle.
func BoolFactor(f *cover.Cover) (*expr.Expr, error) {
	g := &genFactor{divisor: BestKernel(nil), divider: BoolDivision}
	return g.Run(f)
}
