// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bisect

import (
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sdp/hazan"
)

const (
	zero = 0.0
	half = 0.5
	// margin is the slack factor applied to the first feasible objective
	// value when tightening the upper bound. It materially affects how fast
	// the bracket closes: do not tune it casually.
	margin = 1.25
)

// Status reports how a solve terminated.
type Status int

const (
	// Converged the bracket narrowed below tolerance.
	Converged Status = iota
	// Infeasible the base constraints admit no point: the bootstrap query
	// failed and no search was performed. This is an expected outcome, not
	// an error.
	Infeasible
)

// Logger re-exports the shared diagnostics sink.
type Logger = hazan.Logger

// Verdict is the outcome of one feasibility query.
type Verdict struct {
	// The witness on the normalized scale (Tr ≤ 1). When OK is false the
	// witness makes no promise and is diagnostic only.
	X *mat.SymDense
	// The maximum constraint violation at the witness.
	F float64
	// Whether a point satisfying the query within tolerance was found.
	// An oracle may report false for a feasible query it failed to certify
	// within budget; it must never report true for an infeasible one.
	OK bool
}

// Query carries the per-attempt parameters handed to a feasibility oracle.
type Query struct {
	MaxIterations int           // Oracle iteration budget
	Tolerance     float64       // Certification tolerance
	Methods       hazan.Method  // Algorithm variants to attempt
	XInit         *mat.SymDense // Optional user-scale starting matrix
	Logger        *Logger       // Optional diagnostics sink
}

// Oracle answers a single feasibility query.
type Oracle interface {
	Attempt(q *Query) (*Verdict, error)
}

// OracleMaker derives a fresh oracle over the base constraint bundle plus the
// given extra nonlinear inequality constraints. Implementations must not
// share mutable state between derived oracles, so queries built for different
// search iterations cannot contaminate each other.
type OracleMaker func(extra []hazan.Evaluation) (Oracle, error)
