package factor

import (
	"algcore/internal/cover"
	"algcore/internal/cube"
	"algcore/internal/oracle"
)

// BoolDivision is the Boolean-improvement Divider (spec §4.8): it
// consults the external ISOP service (package oracle) to find a
// smaller Q than algebraic division would, using ~D as don't-care,
// then again for R using Q*D as don't-care. If either result has more
// literals than WeakDivision's (or the oracle fails), that whole cover
// is replaced by the algebraic one.
var BoolDivision DividerFunc = boolDivision

func boolDivision(f, d *cover.Cover) (*cover.Cover, *cover.Cover, error) {
	wq, wr, err := weakDivision(f, d)
	if err != nil {
		return nil, nil, err
	}

	n := f.VarNum()
	dOn := oracle.Tvfunc(d)
	dOff := notFunc(dOn, n)

	fOn := oracle.Tvfunc(f)
	q, err := oracle.Isop(fOn, dOff)
	if err != nil || q.LiteralNum() > wq.LiteralNum() {
		q = wq
	}

	qd, err := cover.Product(q, d)
	if err != nil {
		return wq, wr, nil
	}
	qdOn := oracle.Tvfunc(qd)
	r, err := oracle.Isop(fOn, qdOn)
	if err != nil || r.LiteralNum() > wr.LiteralNum() {
		r = wr
	}
	return q, r, nil
}

// notFunc complements a truth function built over n variables, using
// only the operations TruthFunc itself exposes.
func notFunc(f *oracle.TruthFunc, n int) *oracle.TruthFunc {
	full := oracle.Tvfunc(fullCover(n))
	return full.AndNot(f)
}

// fullCover returns the tautology cover over n variables (the all-X
// cube), used only to synthesize the constant-true truth function
// notFunc complements against.
func fullCover(n int) *cover.Cover {
	return cover.FromCube(cube.Empty(n))
}
