// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bisect

import (
	"errors"

	"github.com/curioloop/sdp/hazan"
)

// hazanOracle adapts one configured Hazan feasibility solver to a single
// query. Breakdown statuses are separated from feasibility verdicts: a
// budget-exhausted attempt is a plain "no", an evaluation panic or rejected
// subproblem is an error.
type hazanOracle struct {
	solver *hazan.Solver
	work   *hazan.Workspace
}

func (o *hazanOracle) Attempt(q *Query) (*Verdict, error) {
	res := o.solver.Fit(&hazan.FitOptions{
		MaxIterations: q.MaxIterations,
		Tolerance:     q.Tolerance,
		Methods:       q.Methods,
		XInit:         q.XInit,
		Logger:        q.Logger,
	}, o.work)

	switch res.Status {
	case hazan.HaltEvalPanic:
		return nil, errors.New("evaluation panic during feasibility solve")
	case hazan.BadArgument:
		return nil, errors.New("feasibility solve rejected options")
	}
	return &Verdict{X: res.X, F: res.F, OK: res.OK}, nil
}

// hazanMaker builds the default oracle factory: every derived oracle is a
// fresh Hazan solver over a copy of the base bundle with the extra nonlinear
// inequality constraints appended.
//
// Every query runs in TraceBounded mode (Tr(X) ≤ R handled by normalization
// onto the unit spectrahedron), for the bootstrap and the midpoint queries
// alike: witnesses are uniformly rescaled by R, the equality-trace variant is
// left to callers who install their own maker.
func hazanMaker(p *Problem) OracleMaker {
	linIneq, linEq, neqCons, eqCons := cloneCons(p)
	dim, r, eps := p.Dim, p.R, p.Eps

	return func(extra []hazan.Evaluation) (Oracle, error) {
		neq := make([]hazan.Evaluation, 0, len(neqCons)+len(extra))
		neq = append(append(neq, neqCons...), extra...)

		hp := hazan.Problem{
			Dim: dim, R: r, Eps: eps,
			Trace:   hazan.TraceBounded,
			LinIneq: linIneq,
			LinEq:   linEq,
			NeqCons: neq,
			EqCons:  eqCons,
		}
		s, err := hp.New()
		if err != nil {
			return nil, err
		}
		return &hazanOracle{solver: s, work: s.Init()}, nil
	}
}
