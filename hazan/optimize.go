// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sdp/numdiff"
)

// Problem specifies a feasibility problem over the bounded-trace cone of
// symmetric positive-semidefinite matrices:
//
// find X ⪰ 0 subject to
//   - Tr(AᵢX) ≤ bᵢ  (i = 1 ··· p)
//   - Tr(CⱼX) = dⱼ  (j = 1 ··· q)
//   - 𝒇ₖ(X) ≤ 0    (k = 1 ··· s)
//   - 𝒈ₗ(X) = 0    (l = 1 ··· t)
//   - Tr(X) ≤ R or Tr(X) = R depending on Trace
//
// following the sparse approximate scheme of
//
// Hazan, Elad. "Sparse Approximate Solutions to Semidefinite Programs."
// LATIN 2008: Theoretical Informatics. Springer, 2008, 306:316.
type Problem struct {
	Dim int     // The matrix dimension
	R   float64 // The trace bound
	Eps float64 // The approximation tolerance driving the penalty smoothing

	Trace TraceMode // Trace constraint mode

	LinIneq []TraceCons  // Linear inequality constraints Tr(AᵢX) ≤ bᵢ
	LinEq   []TraceCons  // Linear equality constraints Tr(CⱼX) = dⱼ
	NeqCons []Evaluation // Nonlinear inequality constraints 𝒇ₖ(X) ≤ 0
	EqCons  []Evaluation // Nonlinear equality constraints 𝒈ₗ(X) = 0
}

// New creates a new feasibility solver for given problem.
func (p *Problem) New() (solver *Solver, err error) {

	dim, r := p.Dim, p.R

	switch {
	case dim < 1:
		err = errors.New("matrix dimension must greater than 0")
	case r <= zero:
		err = errors.New("trace bound must greater than 0")
	case p.Eps <= zero:
		err = errors.New("approximation tolerance must greater than 0")
	case p.Trace != TraceBounded && p.Trace != TraceUnit:
		err = errors.New("unknown trace mode")
	}

	for k, lc := range p.LinIneq {
		if lc.A == nil || lc.A.SymmetricDim() != dim {
			err = errors.New(fmt.Sprintf("linear inequality constraint error at %d", k))
			break
		}
	}
	for k, lc := range p.LinEq {
		if lc.A == nil || lc.A.SymmetricDim() != dim {
			err = errors.New(fmt.Sprintf("linear equality constraint error at %d", k))
			break
		}
	}

	neq := slices.Clone(p.NeqCons)
	eq := slices.Clone(p.EqCons)
	for k := range neq {
		if neq[k].Function == nil {
			err = errors.New(fmt.Sprintf("nonlinear inequality constraint error at %d", k))
			break
		}
		if neq[k].Derivative == nil {
			neq[k].Derivative = fdDerivative(dim, neq[k].Function)
		}
	}
	for k := range eq {
		if eq[k].Function == nil {
			err = errors.New(fmt.Sprintf("nonlinear equality constraint error at %d", k))
			break
		}
		if eq[k].Derivative == nil {
			eq[k].Derivative = fdDerivative(dim, eq[k].Function)
		}
	}

	if err != nil {
		return
	}

	n := dim
	if p.Trace == TraceBounded {
		n = dim + 1
	}

	terms := len(p.LinIneq) + 2*len(p.LinEq) + len(neq) + 2*len(eq)
	mult := zero
	if terms > 0 {
		mult = math.Max(one, math.Log(float64(terms))) / p.Eps
	}

	solver = &Solver{
		feasSpec{
			dim: dim, n: n,
			r: r, eps: p.Eps,
			trace:   p.Trace,
			linIneq: slices.Clone(p.LinIneq),
			linEq:   slices.Clone(p.LinEq),
			neqCons: neq,
			eqCons:  eq,
			terms:   terms,
			mult:    mult,
		},
	}
	return
}

// fdDerivative estimates a missing gradient by central finite differences.
func fdDerivative(dim int, f MatFunc) MatGrad {
	as := &numdiff.ApproxSpec{Dim: dim, Object: f, Method: numdiff.Central}
	return func(X, G *mat.SymDense) {
		if err := as.Diff(X, G); err != nil {
			panic(err)
		}
	}
}

// Solver implemented using Hazan's algorithm (Frank-Wolfe over the unit
// spectrahedron with a log-sum-exp penalty of the constraint violations).
type Solver struct {
	feasSpec
}

// Workspace contains the state of one feasibility solve.
// To avoid race conditions, separate workspaces need to be created for each
// goroutine. But multiple workspaces could share one solver.
type Workspace struct {
	n int
	feasCtx
}

// FitOptions control one feasibility attempt.
type FitOptions struct {
	// Max number of Frank-Wolfe iterations per method.
	MaxIterations int
	// Certification tolerance on the maximum constraint violation.
	Tolerance float64
	// Algorithm variants to attempt in order. Defaults to all of them.
	Methods Method
	// Optional starting matrix on the user scale (trace up to R).
	XInit *mat.SymDense
	// Optional diagnostics sink.
	Logger *Logger
}

// Result contains the final result of a feasibility attempt.
type Result struct {
	// Whether a point satisfying every constraint within tolerance was found.
	// When false the witness X makes no promise and is diagnostic only.
	OK bool
	// The witness on the normalized scale: Tr(X) ≤ 1, the user-scale point is
	// R·X.
	X *mat.SymDense
	// The maximum constraint violation at the user-scale point R·X.
	F float64
	Summary
}

// Summary contains a summary of a feasibility attempt.
type Summary struct {
	Status  Status // Final status after the attempt.
	Method  Method // The variant that produced the final iterate.
	NumIter int    // Total number of Frank-Wolfe iterations performed.
}

// Init allocate the workspace for the feasibility solver.
func (s *Solver) Init() *Workspace {
	w := new(Workspace)
	w.n = s.n
	w.feasCtx = feasCtx{
		y:     mat.NewSymDense(s.n, nil),
		g:     mat.NewSymDense(s.n, nil),
		neg:   mat.NewSymDense(s.n, nil),
		trial: mat.NewSymDense(s.n, nil),
		x:     mat.NewSymDense(s.dim, nil),
		gx:    mat.NewSymDense(s.dim, nil),
		v:     make([]float64, s.n),
		vio:   make([]float64, s.terms),
		wts:   make([]float64, s.terms),
	}
	return w
}

// Fit runs the feasibility attempt with options o and workspace w.
// The requested variants are tried in declaration order, each restarting from
// the initial point; the first certified point wins.
func (s *Solver) Fit(o *FitOptions, w *Workspace) *Result {

	if w.n != s.n {
		panic("workspace dimension not match spec")
	}
	if o.XInit != nil && o.XInit.SymmetricDim() != s.dim {
		panic("initial X dimension not match spec")
	}

	methods := o.Methods
	if methods == 0 {
		methods = defaultMethods
	}

	res := &Result{Summary: Summary{Status: BadArgument}}
	if o.MaxIterations < 1 || o.Tolerance <= zero {
		return res
	}

	d := fwDriver{
		solver: s,
		work:   w,
		opts:   o,
		pen:    penalty{spec: &s.feasSpec, ctx: &w.feasCtx},
	}

	for _, m := range []Method{FrankWolfe, FrankWolfeStable} {
		if methods&m == 0 {
			continue
		}
		d.reset(o.XInit)
		st, iter := d.run(m)
		res.Status, res.Method = st, m
		res.NumIter += iter
		if st == Feasible || st == HaltEvalPanic {
			break
		}
	}

	res.OK = res.Status == Feasible
	if res.Status != HaltEvalPanic {
		res.X = d.witness()
		res.F = d.pen.violations(w.y)
	}

	if o.Logger.Enabled(LogLast) {
		o.Logger.Log("feasibility status=%d method=%d iter=%d vio=%g\n",
			res.Status, res.Method, res.NumIter, res.F)
	}
	return res
}
