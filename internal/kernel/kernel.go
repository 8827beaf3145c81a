// Package kernel implements KernelGen: enumeration of all kernels and
// co-kernels of a cover (spec §4.7), following the classical recursive
// "kernel" procedure (Brayton/Rudell ROR87), plus a pluggable
// best-kernel evaluator used by the BestKernel divisor (package
// factor).
package kernel

import (
	"sort"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/cube"
	"algcore/internal/litset"
)

// Pair is one (kernel, co-kernel set) result: kernel is a cube-free
// cover of cardinality >= 2, and coKernels is the cover of every cube
// that divides the input into this kernel.
type Pair struct {
	Kernel    *cover.Cover
	CoKernels *cover.Cover
}

// Evaluator scores a candidate kernel against the cover of its
// co-kernels; higher is better. Best picks the maximum.
type Evaluator func(kernel, coKernels *cover.Cover) float64

// DefaultEvaluator implements the spec §4.7 default weight:
// (|K|-1)*litnum(C) + (|C|-1)*litnum(K), with C the co-kernel cover.
func DefaultEvaluator(kernel, coKernels *cover.Cover) float64 {
	return float64((kernel.CubeNum()-1)*coKernels.LiteralNum() + (coKernels.CubeNum()-1)*kernel.LiteralNum())
}

// AllKernels enumerates every (kernel, co-kernel set) pair of f, in
// deterministic order (sorted by kernel canonical compare). An empty
// input cover yields an empty result — no error (spec §7's "degenerate
// input" rule).
func AllKernels(f *cover.Cover) ([]Pair, error) {
	if f.CubeNum() == 0 {
		return nil, nil
	}
	n := f.VarNum()
	lits := orderedLiterals(f, n)

	results := newResultTable()
	kernSub(f, lits, 0, cube.Empty(n), litset.New(n), results)

	if f.CommonCube().LiteralNum() == 0 && f.CubeNum() >= 2 {
		results.record(f, cube.Empty(n))
	}
	return results.sortedPairs(), nil
}

// Best returns the highest-scoring kernel under eval (DefaultEvaluator
// if eval is nil). It returns the empty cover if f has no kernels.
func Best(f *cover.Cover, eval Evaluator) (*cover.Cover, error) {
	if eval == nil {
		eval = DefaultEvaluator
	}
	pairs, err := AllKernels(f)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return cover.Empty(f.VarNum()), nil
	}
	best := pairs[0]
	bestScore := eval(best.Kernel, best.CoKernels)
	for _, p := range pairs[1:] {
		if s := eval(p.Kernel, p.CoKernels); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best.Kernel, nil
}

// orderedLiterals returns every literal occurring >= 2 times in f,
// ascending by frequency — the order the recursion walks (spec §4.7
// step 1).
func orderedLiterals(f *cover.Cover, n int) []bitpack.Literal {
	var lits []bitpack.Literal
	for v := 0; v < n; v++ {
		for _, neg := range [2]bool{false, true} {
			l := bitpack.Literal{Var: bitpack.Var(v), Negated: neg}
			if f.LiteralFreq(l) >= 2 {
				lits = append(lits, l)
			}
		}
	}
	sort.SliceStable(lits, func(i, j int) bool {
		return f.LiteralFreq(lits[i]) < f.LiteralFreq(lits[j])
	})
	return lits
}

// kernSub is the recursive "kernel" procedure of spec §4.7 step 3. It
// walks lits from index start onward, dividing f by each literal,
// pruning sub-problems already reachable via an earlier literal
// (plits), and recording every cube-free quotient with cardinality
// >= 2 as a kernel.
func kernSub(f *cover.Cover, lits []bitpack.Literal, start int, ccube *cube.Cube, plits *litset.LitSet, results *resultTable) {
	local := plits.Clone()
	for idx := start; idx < len(lits); idx++ {
		l := lits[idx]
		if f.LiteralFreq(l) <= 1 {
			continue // frequency may have dropped during recursion
		}
		f1, err := cover.AlgDivLiteral(f, l)
		if err != nil {
			continue
		}
		cc1 := f1.CommonCube()
		if local.IntersectsCube(cc1.Body()) {
			continue // this sub-problem was already explored via an earlier literal
		}
		f1, err = cover.AlgDivCube(f1, cc1) // make cube-free
		if err != nil {
			continue
		}
		coKernelCube := combineCubes(ccube, cc1, l)
		local.Add(l)

		kernSub(f1, lits, idx+1, coKernelCube, local, results)

		if f1.CubeNum() >= 2 {
			results.record(f1, coKernelCube)
		}
	}
}

// combineCubes computes ccube*cc1*literal(l) as a cube product. The
// recursion's own invariants guarantee this never conflicts; a nil
// product (which would indicate a bug upstream) falls back to the
// partial product rather than panicking.
func combineCubes(ccube, cc1 *cube.Cube, l bitpack.Literal) *cube.Cube {
	p := ccube.Product(cc1)
	if p == nil {
		return cube.Empty(ccube.VarNum())
	}
	p2 := p.ProductLiteral(l)
	if p2 == nil {
		return p
	}
	return p2
}

// resultTable maps canonical kernel covers (hash-bucketed, equality by
// Compare==0) to the union of co-kernel cubes that produced them.
type resultTable struct {
	buckets map[uint16][]*Pair
}

func newResultTable() *resultTable {
	return &resultTable{buckets: make(map[uint16][]*Pair)}
}

func (t *resultTable) record(kernel *cover.Cover, coKernel *cube.Cube) {
	h := kernel.Hash()
	for _, p := range t.buckets[h] {
		if p.Kernel.Compare(kernel) == 0 {
			merged, err := cover.Sum(p.CoKernels, cover.FromCube(coKernel))
			if err == nil {
				p.CoKernels = merged
			}
			return
		}
	}
	t.buckets[h] = append(t.buckets[h], &Pair{Kernel: kernel, CoKernels: cover.FromCube(coKernel)})
}

func (t *resultTable) sortedPairs() []Pair {
	var out []Pair
	for _, bucket := range t.buckets {
		for _, p := range bucket {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kernel.Compare(out[j].Kernel) < 0 })
	return out
}
