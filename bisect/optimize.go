// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bisect

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sdp/hazan"
)

// Problem specifies a convex program over the bounded-trace cone of symmetric
// positive-semidefinite matrices:
//
// minimize 𝒉(X) subject to
//   - Tr(AᵢX) ≤ bᵢ, Tr(CⱼX) = dⱼ
//   - 𝒇ₖ(X) ≤ 0, 𝒈ₗ(X) = 0
//   - Tr(X) ≤ R, X ⪰ 0
//
// assuming L ≤ 𝚖𝚒𝚗 𝒉(X) ≤ U with 𝒉 convex.
//
// The solver performs binary search on the objective value: each midpoint
// 𝛂 ∈ [L,U] becomes one feasibility query for the base constraints augmented
// with 𝒉(X) - 𝛂 ≤ 0, answered by an approximate oracle. A positive verdict
// proves a solution in [L,𝛂]; a negative verdict is taken as "probably
// infeasible" and keeps [𝛂,U]. The error model is one-sided: the oracle may
// miss a feasible point within its budget, it never certifies an infeasible
// one, so the reported optimum can only over-estimate.
type Problem struct {
	Dim   int     // The matrix dimension
	R     float64 // The trace bound
	Lower float64 // Initial lower bound on the objective
	Upper float64 // Initial upper bound on the objective
	Eps   float64 // Approximation tolerance handed to the oracle

	Objective hazan.Evaluation // Objective 𝒉(X) and gradient 𝜵𝒉(X)

	LinIneq []hazan.TraceCons  // Linear inequality constraints Tr(AᵢX) ≤ bᵢ
	LinEq   []hazan.TraceCons  // Linear equality constraints Tr(CⱼX) = dⱼ
	NeqCons []hazan.Evaluation // Nonlinear inequality constraints 𝒇ₖ(X) ≤ 0
	EqCons  []hazan.Evaluation // Nonlinear equality constraints 𝒈ₗ(X) = 0

	// Optional oracle factory. When nil the Hazan feasibility solver bound
	// to (R, Dim, Eps) and the base constraint bundle is installed.
	Oracle OracleMaker
}

// New creates a new binary-search solver for given problem.
func (p *Problem) New() (solver *Solver, err error) {

	switch {
	case p.Dim < 1:
		err = errors.New("matrix dimension must greater than 0")
	case p.R <= zero:
		err = errors.New("trace bound must greater than 0")
	case p.Lower > p.Upper:
		err = errors.New("objective bounds must satisfy L ≤ U")
	case p.Eps <= zero:
		err = errors.New("approximation tolerance must greater than 0")
	case p.Objective.Function == nil:
		err = errors.New("objective function is required")
	}
	if err != nil {
		return
	}

	solver = &Solver{
		dim:   p.Dim,
		r:     p.R,
		lower: p.Lower,
		upper: p.Upper,
		eps:   p.Eps,
		obj:   p.Objective,
	}
	if solver.derive = p.Oracle; solver.derive == nil {
		solver.derive = hazanMaker(p)
	}
	return
}

// Solver reduces convex minimization over the PSD cone to a logarithmic
// number of feasibility queries.
type Solver struct {
	dim          int
	r            float64
	lower, upper float64
	eps          float64
	obj          hazan.Evaluation
	derive       OracleMaker
}

// SolveOptions control one optimization run.
type SolveOptions struct {
	// Iteration budget handed to the oracle on every query.
	MaxIterations int
	// Convergence tolerance on the objective bracket, also handed to the
	// oracle as its certification tolerance.
	Tolerance float64
	// Algorithm variants the oracle may attempt. Defaults to all of them.
	Methods hazan.Method
	// Optional user-scale starting matrix for the bootstrap query.
	XInit *mat.SymDense
	// Optional diagnostics sink. Replaces any interactive inspection of the
	// infeasible path: the solver never blocks on input.
	Logger *Logger
}

// Result contains the final result of the optimization process.
type Result struct {
	// Whether the bracket converged. False means the base constraints were
	// judged infeasible by the bootstrap query.
	OK bool
	// Alpha is the midpoint tested in the final search iteration. By
	// contract it is not recomputed after the last bound update, and it is
	// NaN when the bracket closed before any midpoint was tested. Use Mid
	// for the closed bracket's midpoint.
	Alpha float64
	// Upper is the certified upper bound on the optimum and XUpper its
	// witness on the normalized scale (user-scale point is R·XUpper).
	Upper  float64
	XUpper *mat.SymDense
	// Lower is the probable lower bound and XLower the last failed-query
	// iterate: diagnostic only, not a certified feasible point.
	Lower  float64
	XLower *mat.SymDense
	Summary
}

// Mid returns the midpoint of the final bracket.
func (r *Result) Mid() float64 { return half * (r.Lower + r.Upper) }

// Summary contains a summary of the optimization process.
type Summary struct {
	Status     Status // Final status after optimization.
	NumIter    int    // Number of binary-search iterations performed.
	NumQueries int    // Number of oracle invocations, bootstrap included.
}

// Solve runs the optimization process.
//
// The bootstrap query checks the base constraints alone: on failure the whole
// problem is declared infeasible and the initial bounds are returned with
// OK=false. On success the upper bound is tightened to margin×𝒉(R·X₀) before
// the search starts. Oracle feasibility failures narrow the bracket and never
// escalate; an oracle breakdown (evaluation panic, rejected subproblem)
// surfaces as an error distinct from any feasibility verdict.
func (s *Solver) Solve(opts *SolveOptions) (*Result, error) {

	switch {
	case opts == nil:
		return nil, errors.New("solve options are required")
	case opts.MaxIterations < 1:
		return nil, errors.New("max iteration must greater than 1")
	case opts.Tolerance <= zero:
		return nil, errors.New("tolerance must greater than 0")
	}

	d := &searchDriver{
		solver: s,
		opts:   opts,
		lower:  s.lower,
		upper:  s.upper,
		alpha:  math.NaN(),
	}

	ok, err := d.bootstrap()
	if err != nil {
		return nil, err
	}
	if !ok {
		if opts.Logger.Enabled(hazan.LogLast) {
			opts.Logger.Log("problem infeasible\n")
		}
		return &Result{
			Alpha: math.NaN(),
			Upper: s.upper,
			Lower: s.lower,
			Summary: Summary{
				Status:     Infeasible,
				NumQueries: d.queries,
			},
		}, nil
	}

	if err := d.mainLoop(); err != nil {
		return nil, err
	}

	if opts.Logger.Enabled(hazan.LogLast) {
		opts.Logger.Log("converged with obj in (%f, %f) after %d queries\n",
			d.lower, d.upper, d.queries)
	}
	return &Result{
		OK:    true,
		Alpha: d.alpha,
		Upper: d.upper, XUpper: d.xUpper,
		Lower: d.lower, XLower: d.xLower,
		Summary: Summary{
			Status:     Converged,
			NumIter:    d.iters,
			NumQueries: d.queries,
		},
	}, nil
}

// scaleSym returns f·X as a fresh matrix.
func scaleSym(f float64, x *mat.SymDense) *mat.SymDense {
	n := x.SymmetricDim()
	s := mat.NewSymDense(n, nil)
	s.ScaleSym(f, x)
	return s
}

// cloneCons guards the base bundle against aliasing with caller slices.
func cloneCons(p *Problem) (linIneq, linEq []hazan.TraceCons, neq, eq []hazan.Evaluation) {
	return slices.Clone(p.LinIneq), slices.Clone(p.LinEq),
		slices.Clone(p.NeqCons), slices.Clone(p.EqCons)
}
