// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bisect

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sdp/hazan"
)

// searchDriver holds the mutable bracket of one solve. It is created at the
// start of Solve and consumed entirely by it: no state survives across calls.
type searchDriver struct {
	solver *Solver
	opts   *SolveOptions

	// current bracket and the last tested midpoint
	lower, upper, alpha float64
	// best upper-side witness (certified) and last lower-side iterate
	// (diagnostic)
	xUpper, xLower *mat.SymDense
	// counters
	iters, queries int
}

// query derives a fresh oracle for the base bundle plus extra constraints and
// runs one attempt. A fresh oracle per query keeps iterations independent.
func (d *searchDriver) query(extra []hazan.Evaluation, init *mat.SymDense) (*Verdict, error) {
	oracle, err := d.solver.derive(extra)
	if err != nil {
		return nil, err
	}
	d.queries++
	v, err := oracle.Attempt(&Query{
		MaxIterations: d.opts.MaxIterations,
		Tolerance:     d.opts.Tolerance,
		Methods:       d.opts.Methods,
		XInit:         init,
		Logger:        d.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("oracle returned no verdict")
	}
	return v, nil
}

// bootstrap tests that the base constraints are feasible at all, independent
// of the objective, and tightens the upper bound from the first witness:
// U = margin×𝒉(R·X₀). Reports false when the whole problem is infeasible.
func (d *searchDriver) bootstrap() (bool, error) {
	s, o := d.solver, d.opts

	v, err := d.query(nil, o.XInit)
	if err != nil {
		return false, err
	}
	if !v.OK {
		return false, nil
	}

	hx := s.obj.Function(scaleSym(s.r, v.X))
	d.upper = margin * hx
	d.xUpper = v.X

	if o.Logger.Enabled(hazan.LogBracket) {
		o.Logger.Log("problem feasible with obj in (%f, %f), new upper bound %f\n",
			d.lower, s.upper, d.upper)
	}
	return true, nil
}

// mainLoop performs the binary search. Each midpoint 𝛂 = (U+L)/2 is turned
// into the feasibility query "base constraints plus 𝒉(X) - 𝛂 ≤ 0", seeded
// with the rescaled best upper-side witness. A positive verdict contracts the
// upper half, a negative one the lower half; the bracket narrows strictly
// every iteration, so the loop runs at most ⌈𝚕𝚘𝚐₂((U-L)/tol)⌉ times.
func (d *searchDriver) mainLoop() error {
	s, o := d.solver, d.opts
	obj := s.obj

	for d.upper-d.lower >= o.Tolerance {
		d.iters++
		alpha := half * (d.upper + d.lower)
		d.alpha = alpha

		// The constant shift leaves the gradient of 𝒉 unchanged.
		shifted := hazan.Evaluation{
			Function: func(X *mat.SymDense) float64 {
				return obj.Function(X) - alpha
			},
			Derivative: obj.Derivative,
		}

		v, err := d.query([]hazan.Evaluation{shifted}, scaleSym(s.r, d.xUpper))
		if err != nil {
			return err
		}

		if v.OK {
			d.upper = alpha
			d.xUpper = v.X
			if o.Logger.Enabled(hazan.LogBracket) {
				o.Logger.Log("feasible with obj in (%f, %f)\n", d.lower, d.upper)
			}
		} else {
			d.lower = alpha
			d.xLower = v.X
			if o.Logger.Enabled(hazan.LogBracket) {
				o.Logger.Log("probably infeasible, continuing in (%f, %f)\n", d.lower, d.upper)
			}
		}
	}
	return nil
}
