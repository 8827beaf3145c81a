package oracle

import (
	"testing"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
)

func lit(v int, neg bool) bitpack.Literal { return bitpack.Literal{Var: bitpack.Var(v), Negated: neg} }

func mustCover(t *testing.T, n int, cubes [][]bitpack.Literal) *cover.Cover {
	t.Helper()
	c, err := cover.New(n, cubes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestTvfuncMatchesCover(t *testing.T) {
	// f = x0 + x1'x2 over 3 variables
	f := mustCover(t, 3, [][]bitpack.Literal{
		{lit(0, false)},
		{lit(1, true), lit(2, false)},
	})
	tv := Tvfunc(f)
	for row := 0; row < 8; row++ {
		x0 := row&1 != 0
		x1 := row&2 != 0
		x2 := row&4 != 0
		want := x0 || (!x1 && x2)
		if got := tv.get(row); got != want {
			t.Errorf("row %d: got %v want %v", row, got, want)
		}
	}
}

func TestIsopNoDontCareReproducesFunction(t *testing.T) {
	f := mustCover(t, 3, [][]bitpack.Literal{
		{lit(0, false), lit(1, false)},
		{lit(1, true), lit(2, false)},
	})
	tv := Tvfunc(f)
	dc := newTruthFunc(3)
	g, err := Isop(tv, dc)
	if err != nil {
		t.Fatalf("Isop: %v", err)
	}
	gtv := Tvfunc(g)
	if !equalFunc(tv, gtv) {
		t.Fatalf("isop result does not match original function")
	}
}

func TestIsopZeroFunction(t *testing.T) {
	on := newTruthFunc(3)
	dc := newTruthFunc(3)
	g, err := Isop(on, dc)
	if err != nil {
		t.Fatalf("Isop: %v", err)
	}
	if g.CubeNum() != 0 {
		t.Fatalf("expected empty cover for the zero function, got %v", g.LiteralList())
	}
}

func TestIsopTautology(t *testing.T) {
	on := newTruthFunc(2)
	dc := newTruthFunc(2)
	for row := 0; row < 4; row++ {
		on.set(row, true)
	}
	g, err := Isop(on, dc)
	if err != nil {
		t.Fatalf("Isop: %v", err)
	}
	if g.CubeNum() != 1 || g.GetCube(0).LiteralNum() != 0 {
		t.Fatalf("expected single tautology cube, got %v", g.LiteralList())
	}
}

func TestIsopStaysWithinDontCareBounds(t *testing.T) {
	// on = minterms {1,3} over 2 vars (the function x0), dc = {0}: the
	// result must cover the onset and stay inside onset ∪ dc.
	on := newTruthFunc(2)
	on.set(1, true)
	on.set(3, true)
	dc := newTruthFunc(2)
	dc.set(0, true)

	g, err := Isop(on, dc)
	if err != nil {
		t.Fatalf("Isop: %v", err)
	}
	gtv := Tvfunc(g)
	full := on.Or(dc)
	for row := 0; row < 4; row++ {
		if on.get(row) && !gtv.get(row) {
			t.Errorf("row %d: onset not covered", row)
		}
		if gtv.get(row) && !full.get(row) {
			t.Errorf("row %d: result exceeds onset union dont-care", row)
		}
	}
}

func TestCofactorDoesNotDependOnSplitVar(t *testing.T) {
	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false)}})
	tv := Tvfunc(f)
	c0 := tv.Cofactor(bitpack.Var(0), false)
	c1 := tv.Cofactor(bitpack.Var(0), true)
	if !equalFunc(c0.Cofactor(bitpack.Var(0), false), c0.Cofactor(bitpack.Var(0), true)) {
		t.Errorf("cofactor on var 0 should no longer depend on var 0")
	}
	if !equalFunc(c1.Cofactor(bitpack.Var(0), false), c1.Cofactor(bitpack.Var(0), true)) {
		t.Errorf("cofactor on var 0 should no longer depend on var 0")
	}
}
