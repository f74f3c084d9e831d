// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"gonum.org/v1/gonum/mat"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
	eps  = float64(7)/3 - float64(4)/3 - 1.
)

// Status reports the outcome of a feasibility attempt.
type Status int

const (
	// Feasible a point satisfying every constraint within tolerance was found.
	Feasible Status = iota
	// BudgetExhausted no certified point was found within the iteration budget.
	// The problem may still be feasible: the caller must treat this verdict as
	// "probably infeasible", never as a proof.
	BudgetExhausted
	// HaltEvalPanic a constraint or gradient evaluation panicked.
	HaltEvalPanic
	// BadArgument the fit options are unacceptable.
	BadArgument
)

// Method selects the Frank-Wolfe variants the solver may run.
// Variants are attempted in declaration order and the first
// certified point wins.
type Method uint8

const (
	// FrankWolfe classic conditional gradient with step length 𝛄ₖ = 2/(k+2).
	FrankWolfe Method = 1 << iota
	// FrankWolfeStable conditional gradient with an exact derivative-free
	// line-search for 𝛄ₖ ∈ [0,1].
	FrankWolfeStable

	defaultMethods = FrankWolfe | FrankWolfeStable
)

// TraceMode selects how the trace of the iterate is constrained.
type TraceMode int

const (
	// TraceBounded constrain Tr(X) ≤ R. The solver augments the iterate with
	// one slack dimension so that the internal point lives on the unit
	// spectrahedron {Y ⪰ 0, Tr(Y) = 1} and X = R·Y[:dim,:dim].
	TraceBounded TraceMode = iota
	// TraceUnit constrain Tr(X) = R exactly: no slack dimension, the internal
	// point is X/R itself.
	TraceUnit
)

// MatFunc is a scalar functional of a symmetric matrix.
type MatFunc func(X *mat.SymDense) float64

// MatGrad stores the gradient of a MatFunc at X into G.
// The convention is ⟨G,D⟩ = Tr(G·D) for the directional derivative along a
// symmetric direction D.
type MatGrad func(X, G *mat.SymDense)

// Evaluation pairs a nonlinear constraint functional with its gradient.
// When Derivative is nil the gradient is estimated by central finite
// differences.
type Evaluation struct {
	Function   MatFunc
	Derivative MatGrad
}

// TraceCons is a linear constraint on the trace inner product:
// Tr(A·X) ≤ B when registered as an inequality, Tr(A·X) = B as an equality.
type TraceCons struct {
	A *mat.SymDense
	B float64
}

type feasSpec struct {
	// the user-facing matrix dimension
	dim int
	// the internal dimension: dim+1 for TraceBounded, dim for TraceUnit
	n int
	// the trace bound
	r float64
	// the approximation tolerance driving the penalty smoothing
	eps float64
	// the trace constraint mode
	trace TraceMode
	// constraint collections
	linIneq, linEq []TraceCons
	neqCons, eqCons []Evaluation
	// the number of one-sided penalty terms (equalities count twice)
	terms int
	// the log-sum-exp smoothing multiplier M = 𝚖𝚊𝚡(1, 𝚕𝚘𝚐 m)/eps
	mult float64
}

type feasCtx struct {
	// the internal iterate on the unit spectrahedron
	y *mat.SymDense // n×n
	// the penalty gradient at y
	g *mat.SymDense // n×n
	// the negated gradient handed to the eigen solve
	neg *mat.SymDense // n×n
	// the line-search trial point
	trial *mat.SymDense // n×n
	// the user-scale evaluation point R·y[:dim,:dim]
	x *mat.SymDense // dim×dim
	// constraint gradient scratch
	gx *mat.SymDense // dim×dim
	// the leading eigenvector of the negated gradient
	v []float64 // n
	// one-sided constraint violations
	vio []float64 // terms
	// softmax weights of the violations
	wts []float64 // terms
}
