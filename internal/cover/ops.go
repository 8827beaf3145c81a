package cover

import (
	"algcore/internal/algerr"
	"algcore/internal/bitpack"
	"algcore/internal/cube"
)

func checkShape(op string, a, b *Cover) error {
	if a.varNum != b.varNum {
		return algerr.Shape(op, a.varNum, b.varNum)
	}
	return nil
}

// Sum returns a+b: the linear merge of two sorted cube lists, with a
// cube common to both emitted once.
func Sum(a, b *Cover) (*Cover, error) {
	if err := checkShape("Sum", a, b); err != nil {
		return nil, err
	}
	w := a.w
	chunk := make([]uint64, (a.cubeNum+b.cubeNum)*w)
	copy(chunk[:a.cubeNum*w], a.chunk)
	copy(chunk[a.cubeNum*w:], b.chunk)
	n := canonicalize(chunk, w, a.cubeNum+b.cubeNum)
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// Diff returns a-b: the set difference on cubes (cubes of a not
// present verbatim in b). This is set subtraction on cube lists, not
// Boolean subtraction.
func Diff(a, b *Cover) (*Cover, error) {
	if err := checkShape("Diff", a, b); err != nil {
		return nil, err
	}
	w := a.w
	idx := newCubeSet(b)
	chunk := make([]uint64, 0, a.cubeNum*w)
	for i := 0; i < a.cubeNum; i++ {
		body := a.cubeBody(i)
		if !idx.contains(body) {
			chunk = append(chunk, body...)
		}
	}
	n := len(chunk) / w
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk}, nil
}

// Product returns the algebraic product a*b: the Cartesian product of
// cubes, conflicting pairs discarded, re-canonicalised.
func Product(a, b *Cover) (*Cover, error) {
	if err := checkShape("Product", a, b); err != nil {
		return nil, err
	}
	w := a.w
	chunk := make([]uint64, 0, a.cubeNum*b.cubeNum*w)
	scratch := make([]uint64, w)
	for i := 0; i < a.cubeNum; i++ {
		ca := a.cubeBody(i)
		for j := 0; j < b.cubeNum; j++ {
			cb := b.cubeBody(j)
			if bitpack.Product(scratch, ca, cb) {
				chunk = append(chunk, scratch...)
			}
		}
	}
	n := canonicalize(chunk, w, len(chunk)/w)
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// ProductCube returns a*c, c a single cube: conflict-skip a cube of a
// when c contradicts it, otherwise OR in c's literals, then
// re-canonicalise: OR-ing the same literals into every cube can
// reorder cubes (x0 and !x1 times x0 give x0 and x0!x1, now ascending)
// or make two of them equal.
func ProductCube(a *Cover, c *cube.Cube) (*Cover, error) {
	if a.varNum != c.VarNum() {
		return nil, algerr.Shape("ProductCube", a.varNum, c.VarNum())
	}
	w := a.w
	chunk := make([]uint64, 0, a.cubeNum*w)
	scratch := make([]uint64, w)
	for i := 0; i < a.cubeNum; i++ {
		if bitpack.Product(scratch, a.cubeBody(i), c.Body()) {
			chunk = append(chunk, scratch...)
		}
	}
	n := canonicalize(chunk, w, len(chunk)/w)
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// ProductLiteral returns a*lit.
func ProductLiteral(a *Cover, lit bitpack.Literal) (*Cover, error) {
	if int(lit.Var) < 0 || int(lit.Var) >= a.varNum {
		return nil, algerr.Range("literal variable", int(lit.Var), a.varNum)
	}
	return ProductCube(a, cube.FromLiteral(a.varNum, lit))
}

// AlgDiv returns the algebraic quotient a/b: the largest cover Q such
// that Q*b is a sub-cover of a (spec §4.5's GLOSSARY definition). A
// cube q qualifies iff, for every cube of b, q*that-cube is literally
// present in a.
func AlgDiv(a, b *Cover) (*Cover, error) {
	if err := checkShape("AlgDiv", a, b); err != nil {
		return nil, err
	}
	if b.cubeNum == 0 {
		return Empty(a.varNum), nil
	}
	w := a.w
	aIdx := newCubeSet(a)

	// Candidate quotients: a/b0 for the first cube of b.
	b0 := b.cubeBody(0)
	var candidates [][]uint64
	scratch := make([]uint64, w)
	for i := 0; i < a.cubeNum; i++ {
		if bitpack.Quotient(scratch, a.cubeBody(i), b0) {
			candidates = append(candidates, append([]uint64(nil), scratch...))
		}
	}

	chunk := make([]uint64, 0, len(candidates)*w)
	for _, q := range candidates {
		ok := true
		for j := 0; j < b.cubeNum; j++ {
			prod := make([]uint64, w)
			if !bitpack.Product(prod, q, b.cubeBody(j)) || !aIdx.contains(prod) {
				ok = false
				break
			}
		}
		if ok {
			chunk = append(chunk, q...)
		}
	}
	n := canonicalize(chunk, w, len(chunk)/w)
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// AlgDivCube returns a/c for a single cube c: emit, for every cube of
// a that contains c, that cube with c's literals cleared to X.
func AlgDivCube(a *Cover, c *cube.Cube) (*Cover, error) {
	if a.varNum != c.VarNum() {
		return nil, algerr.Shape("AlgDivCube", a.varNum, c.VarNum())
	}
	w := a.w
	chunk := make([]uint64, 0, a.cubeNum*w)
	for i := 0; i < a.cubeNum; i++ {
		ca := a.cubeBody(i)
		if bitpack.Contains(ca, c.Body()) {
			q := make([]uint64, w)
			bitpack.Quotient(q, ca, c.Body())
			chunk = append(chunk, q...)
		}
	}
	n := canonicalize(chunk, w, len(chunk)/w)
	return &Cover{varNum: a.varNum, w: w, cubeNum: n, chunk: chunk[:n*w]}, nil
}

// AlgDivLiteral returns a/lit: cubes containing lit, with lit cleared.
func AlgDivLiteral(a *Cover, lit bitpack.Literal) (*Cover, error) {
	if int(lit.Var) < 0 || int(lit.Var) >= a.varNum {
		return nil, algerr.Range("literal variable", int(lit.Var), a.varNum)
	}
	return AlgDivCube(a, cube.FromLiteral(a.varNum, lit))
}

// SumAssign replaces c in place with c+other and returns c (the
// receiver), closing the missing-final-return bug noted for one
// source variant of operator/= in spec §9.
func (c *Cover) SumAssign(other *Cover) (*Cover, error) {
	res, err := Sum(c, other)
	if err != nil {
		return c, err
	}
	*c = *res
	return c, nil
}

// DiffAssign replaces c in place with c-other and returns c.
func (c *Cover) DiffAssign(other *Cover) (*Cover, error) {
	res, err := Diff(c, other)
	if err != nil {
		return c, err
	}
	*c = *res
	return c, nil
}

// ProductAssign replaces c in place with c*other and returns c.
func (c *Cover) ProductAssign(other *Cover) (*Cover, error) {
	res, err := Product(c, other)
	if err != nil {
		return c, err
	}
	*c = *res
	return c, nil
}

// QuotientAssign replaces c in place with c/other and returns c.
func (c *Cover) QuotientAssign(other *Cover) (*Cover, error) {
	res, err := AlgDiv(c, other)
	if err != nil {
		return c, err
	}
	*c = *res
	return c, nil
}

// cubeSet indexes a cover's cube bodies by their 16-bit hash for exact
// membership tests (equality, not containment) — used by Diff and
// AlgDiv.
type cubeSet struct {
	buckets map[uint16][][]uint64
}

func newCubeSet(c *Cover) *cubeSet {
	s := &cubeSet{buckets: make(map[uint16][][]uint64, c.cubeNum)}
	for i := 0; i < c.cubeNum; i++ {
		body := c.cubeBody(i)
		h := bitpack.Hash(body)
		s.buckets[h] = append(s.buckets[h], body)
	}
	return s
}

func (s *cubeSet) contains(body []uint64) bool {
	h := bitpack.Hash(body)
	for _, cand := range s.buckets[h] {
		if bitpack.Compare(cand, body) == 0 {
			return true
		}
	}
	return false
}
