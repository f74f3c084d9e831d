// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// line-search interval of uncertainty for the step length
	lineTol = 1e-4
	// line-search evaluation budget per step
	lineEval = 48
)

// fwDriver runs Frank-Wolfe iterations over the unit spectrahedron
//
//	Yₖ₊₁ = (1-𝛄ₖ)Yₖ + 𝛄ₖ𝐯𝐯ᵀ
//
// where 𝐯 is the leading eigenvector of -𝜵𝛙(Yₖ), keeping every iterate a
// convex combination of rank-one PSD terms with unit trace.
type fwDriver struct {
	solver *Solver
	work   *Workspace
	opts   *FitOptions
	pen    penalty
}

// reset rebuilds the internal iterate from the user-scale starting matrix.
// In TraceBounded mode the slack entry absorbs the remaining trace budget;
// a starting point exceeding the budget is normalized onto the boundary.
func (d *fwDriver) reset(X0 *mat.SymDense) {
	s, w := d.solver, d.work
	n := s.n
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w.y.SetSym(i, j, zero)
		}
	}

	if X0 == nil {
		for i := 0; i < n; i++ {
			w.y.SetSym(i, i, one/float64(n))
		}
		return
	}

	t := zero
	for i := 0; i < s.dim; i++ {
		t += X0.At(i, i)
	}
	t /= s.r

	if s.trace == TraceUnit {
		if t <= zero {
			for i := 0; i < n; i++ {
				w.y.SetSym(i, i, one/float64(n))
			}
			return
		}
		scale := one / (s.r * t)
		for i := 0; i < s.dim; i++ {
			for j := i; j < s.dim; j++ {
				w.y.SetSym(i, j, scale*X0.At(i, j))
			}
		}
		return
	}

	scale, slack := one/s.r, one-t
	if t > one {
		scale /= t
		slack = zero
	}
	for i := 0; i < s.dim; i++ {
		for j := i; j < s.dim; j++ {
			w.y.SetSym(i, j, scale*X0.At(i, j))
		}
	}
	w.y.SetSym(n-1, n-1, math.Max(zero, slack))
}

// run performs up to MaxIterations Frank-Wolfe steps with the given variant.
// Constraint evaluation panics surface as HaltEvalPanic.
func (d *fwDriver) run(method Method) (st Status, iter int) {

	defer func() {
		if r := recover(); r != nil {
			st = HaltEvalPanic
		}
	}()

	s, w, o := d.solver, d.work, d.opts
	if s.terms == 0 {
		// Nothing to violate
		return Feasible, 0
	}

	st = BudgetExhausted
	for k := 0; k < o.MaxIterations; k++ {
		iter = k

		val, maxVio := d.pen.eval(w.y, w.g)
		if maxVio <= o.Tolerance {
			return Feasible, k
		}

		w.neg.ScaleSym(-one, w.g)
		leadingEigvec(w.neg, w.v)

		gamma := two / float64(k+2)
		if method == FrankWolfeStable {
			gamma = d.searchStep(val, gamma)
		}
		d.step(w.y, gamma)

		if o.Logger.Enabled(LogIter) {
			o.Logger.Log("fw iter=%d psi=%g vio=%g gamma=%g\n", k, val, maxVio, gamma)
		}
	}

	iter = o.MaxIterations
	if _, maxVio := d.pen.value(w.y); maxVio <= o.Tolerance {
		st = Feasible
	}
	return
}

// step moves the iterate along the rank-one direction: y = (1-𝛄)y + 𝛄𝐯𝐯ᵀ.
func (d *fwDriver) step(y *mat.SymDense, gamma float64) {
	v := mat.NewVecDense(len(d.work.v), d.work.v)
	y.ScaleSym(one-gamma, y)
	y.SymRankOne(y, gamma, v)
}

// searchStep picks the step length minimizing 𝛙((1-𝛄)Y + 𝛄𝐯𝐯ᵀ) over [0,1].
// Falls back to the open-loop step when the search makes no progress.
func (d *fwDriver) searchStep(cur, fallback float64) float64 {
	w := d.work
	v := mat.NewVecDense(len(w.v), w.v)
	phi := func(gamma float64) float64 {
		w.trial.ScaleSym(one-gamma, w.y)
		w.trial.SymRankOne(w.trial, gamma, v)
		val, _ := d.pen.value(w.trial)
		return val
	}
	gamma := findMin(phi, zero, one, lineTol, lineEval)
	if phi(gamma) < cur {
		return gamma
	}
	return fallback
}

// witness extracts the normalized user block of the iterate.
func (d *fwDriver) witness() *mat.SymDense {
	s, w := d.solver, d.work
	x := mat.NewSymDense(s.dim, nil)
	for i := 0; i < s.dim; i++ {
		for j := i; j < s.dim; j++ {
			x.SetSym(i, j, w.y.At(i, j))
		}
	}
	return x
}
