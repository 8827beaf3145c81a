package bitpack

import "testing"

func cubeOf(n int, lits ...Literal) []uint64 {
	c := make([]uint64, NumWords(n))
	for _, l := range lits {
		SetLiteral(c, l)
	}
	return c
}

func TestSetLiteralDuplicateIdempotent(t *testing.T) {
	c := cubeOf(4, Literal{Var: 1, Negated: false})
	if ok := SetLiteral(c, Literal{Var: 1, Negated: false}); !ok {
		t.Fatalf("duplicate literal should be idempotent, got conflict")
	}
	if GetPat(c, 1) != PatPositive {
		t.Fatalf("expected positive pattern, got %v", GetPat(c, 1))
	}
}

func TestSetLiteralConflict(t *testing.T) {
	c := cubeOf(4, Literal{Var: 1, Negated: false})
	if ok := SetLiteral(c, Literal{Var: 1, Negated: true}); ok {
		t.Fatalf("expected conflict to be reported")
	}
	if GetPat(c, 1) != PatConflict {
		t.Fatalf("expected conflict pattern recorded, got %v", GetPat(c, 1))
	}
}

func TestProductConflict(t *testing.T) {
	n := 4
	a := cubeOf(n, Literal{Var: 0})
	b := cubeOf(n, Literal{Var: 0, Negated: true})
	dst := make([]uint64, NumWords(n))
	if Product(dst, a, b) {
		t.Fatalf("expected product conflict on opposite polarities")
	}
}

func TestProductUnion(t *testing.T) {
	n := 4
	a := cubeOf(n, Literal{Var: 0})
	b := cubeOf(n, Literal{Var: 1, Negated: true})
	dst := make([]uint64, NumWords(n))
	if !Product(dst, a, b) {
		t.Fatalf("expected non-conflicting product")
	}
	if GetPat(dst, 0) != PatPositive || GetPat(dst, 1) != PatNegative {
		t.Fatalf("unexpected product pattern")
	}
}

func TestQuotient(t *testing.T) {
	n := 4
	a := cubeOf(n, Literal{Var: 0}, Literal{Var: 1, Negated: true})
	b := cubeOf(n, Literal{Var: 0})
	dst := make([]uint64, NumWords(n))
	if !Quotient(dst, a, b) {
		t.Fatalf("expected divisibility")
	}
	if GetPat(dst, 0) != PatX {
		t.Fatalf("expected var 0 cleared to X")
	}
	if GetPat(dst, 1) != PatNegative {
		t.Fatalf("expected var 1 untouched")
	}

	c := cubeOf(n, Literal{Var: 2})
	if Quotient(dst, a, c) {
		t.Fatalf("expected non-divisibility when b has a literal a lacks")
	}
}

func TestContainsIntersects(t *testing.T) {
	n := 4
	a := cubeOf(n, Literal{Var: 0}, Literal{Var: 1, Negated: true})
	b := cubeOf(n, Literal{Var: 0})
	if !Contains(a, b) {
		t.Fatalf("a should contain b")
	}
	if Contains(b, a) {
		t.Fatalf("b should not contain a")
	}
	if !Intersects(a, b) {
		t.Fatalf("a and b should intersect")
	}
	c := cubeOf(n, Literal{Var: 2})
	if Intersects(a, c) {
		t.Fatalf("a and c should not intersect")
	}
}

func TestCompareAndLiteralCount(t *testing.T) {
	n := 40 // spans two words
	a := cubeOf(n, Literal{Var: 0})
	b := cubeOf(n, Literal{Var: 0, Negated: true})
	if Compare(a, a) != 0 {
		t.Fatalf("expected equal cubes to compare 0")
	}
	// positive (01) < negative (10) numerically at the same position.
	if Compare(a, b) >= 0 {
		t.Fatalf("expected positive-literal cube to compare below negative")
	}
	c := cubeOf(n, Literal{Var: 0}, Literal{Var: 39, Negated: true})
	if LiteralCount(c) != 2 {
		t.Fatalf("expected literal count 2, got %d", LiteralCount(c))
	}
}

func TestCofactor(t *testing.T) {
	n := 4
	a := cubeOf(n, Literal{Var: 0}, Literal{Var: 1, Negated: true})
	dst := make([]uint64, NumWords(n))
	if !Cofactor(dst, a, Literal{Var: 0}) {
		t.Fatalf("expected agreeing cofactor to succeed")
	}
	if GetPat(dst, 0) != PatX {
		t.Fatalf("expected var 0 cleared")
	}
	if Cofactor(dst, a, Literal{Var: 0, Negated: true}) {
		t.Fatalf("expected disagreeing cofactor to fail")
	}
}
