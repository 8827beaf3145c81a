package factor

import (
	"testing"

	"algcore/internal/bitpack"
	"algcore/internal/cover"
	"algcore/internal/expr"
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

// spec §8 scenario 5: QuickFactor on ac+ad+bc+bd is equivalent to (a+b)(c+d).
func TestQuickFactorDistributesOverCommonFactors(t *testing.T) {
	// vars: a=0 b=1 c=2 d=3
	f := mustCover(t, 4, [][]bitpack.Literal{
		{lit(0, false), lit(2, false)},
		{lit(0, false), lit(3, false)},
		{lit(1, false), lit(2, false)},
		{lit(1, false), lit(3, false)},
	})
	e, err := QuickFactor(f)
	if err != nil {
		t.Fatalf("QuickFactor: %v", err)
	}
	if e.LiteralCount() > 4 {
		t.Fatalf("expected a factored form with at most 4 literals (a+b)(c+d), got %d: %s", e.LiteralCount(), e.String())
	}
	if !equivalent(t, f, e) {
		t.Fatalf("factored expression is not equivalent to the original cover: %s", e.String())
	}
}

// spec §8 scenario 6: GoodFactor on the classic 8-cube F yields a
// factored form with strictly fewer literals than F's 22-literal flat
// form.
func classicCover(t *testing.T) *cover.Cover {
	// vars: a=0 b=1 c=2 d=3 e=4 f=5 g=6 h=7
	lits := func(vs ...int) []bitpack.Literal {
		out := make([]bitpack.Literal, len(vs))
		for i, v := range vs {
			out[i] = lit(v, false)
		}
		return out
	}
	return mustCover(t, 8, [][]bitpack.Literal{
		lits(0, 3, 5),
		lits(0, 4, 5),
		lits(1, 3, 5),
		lits(1, 4, 5),
		lits(2, 3, 5),
		lits(2, 4, 5),
		lits(1, 5, 6),
		lits(7),
	})
}

func TestGoodFactorBeatsFlatForm(t *testing.T) {
	f := classicCover(t)
	flat := f.LiteralNum()
	e, err := GoodFactor(f)
	if err != nil {
		t.Fatalf("GoodFactor: %v", err)
	}
	if e.LiteralCount() >= flat {
		t.Fatalf("expected factored literal count below the flat form's %d, got %d: %s", flat, e.LiteralCount(), e.String())
	}
	if !equivalent(t, f, e) {
		t.Fatalf("factored expression is not equivalent to the original cover: %s", e.String())
	}
}

func TestQuickFactorEmptyCover(t *testing.T) {
	e, err := QuickFactor(cover.Empty(3))
	if err != nil {
		t.Fatalf("QuickFactor: %v", err)
	}
	if e.Kind != expr.KindZero {
		t.Fatalf("expected zero expression for empty cover")
	}
}

func TestQuickFactorSingleCube(t *testing.T) {
	f := mustCover(t, 2, [][]bitpack.Literal{{lit(0, false), lit(1, true)}})
	e, err := QuickFactor(f)
	if err != nil {
		t.Fatalf("QuickFactor: %v", err)
	}
	if !equivalent(t, f, e) {
		t.Fatalf("single-cube factoring is not equivalent: %s", e.String())
	}
}

func TestBoolFactorEquivalence(t *testing.T) {
	f := mustCover(t, 3, [][]bitpack.Literal{
		{lit(0, false), lit(1, false)},
		{lit(0, false), lit(2, false)},
	})
	e, err := BoolFactor(f)
	if err != nil {
		t.Fatalf("BoolFactor: %v", err)
	}
	if !equivalent(t, f, e) {
		t.Fatalf("BoolFactor result is not equivalent: %s", e.String())
	}
}

// equivalent exhaustively checks e against f's truth table (small
// variable counts only; every fixture here has <= 8 variables).
func equivalent(t *testing.T, f *cover.Cover, e *expr.Expr) bool {
	t.Helper()
	n := f.VarNum()
	rows := 1 << uint(n)
	cubes := f.LiteralList()
	for row := 0; row < rows; row++ {
		assign := make([]bool, n)
		for v := 0; v < n; v++ {
			assign[v] = (row>>uint(v))&1 != 0
		}
		want := false
		for _, lits := range cubes {
			ok := true
			for _, l := range lits {
				val := assign[l.Var]
				if l.Negated {
					val = !val
				}
				if !val {
					ok = false
					break
				}
			}
			if ok {
				want = true
				break
			}
		}
		got := evalExpr(e, assign)
		if got != want {
			return false
		}
	}
	return true
}

func evalExpr(e *expr.Expr, assign []bool) bool {
	switch e.Kind {
	case expr.KindZero:
		return false
	case expr.KindOne:
		return true
	case expr.KindLiteral:
		v := assign[e.Literal.Var]
		if e.Literal.Negated {
			return !v
		}
		return v
	case expr.KindAnd:
		for _, c := range e.Children {
			if !evalExpr(c, assign) {
				return false
			}
		}
		return true
	case expr.KindOr:
		for _, c := range e.Children {
			if evalExpr(c, assign) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
