// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/sdp/numdiff"
)

func testPenalty(t *testing.T) (*Solver, *Workspace, penalty) {
	t.Helper()

	a := mat.NewSymDense(2, []float64{
		1, 0.2,
		0.2, 0.5,
	})
	p := &Problem{
		Dim: 2, R: 1.5, Eps: 0.5,
		Trace:   TraceBounded,
		LinIneq: []TraceCons{{A: eye(2), B: 1}},
		LinEq:   []TraceCons{{A: a, B: 0.3}},
		NeqCons: []Evaluation{{
			Function: func(x *mat.SymDense) float64 {
				return x.At(0, 0)*x.At(0, 0) - 0.1
			},
			Derivative: func(x, g *mat.SymDense) {
				g.SetSym(0, 0, 2*x.At(0, 0))
				g.SetSym(0, 1, 0)
				g.SetSym(1, 1, 0)
			},
		}},
	}
	s, err := p.New()
	if err != nil {
		t.Fatal("testPenalty: New Error")
	}
	w := s.Init()
	return s, w, penalty{spec: &s.feasSpec, ctx: &w.feasCtx}
}

func TestPenaltyBounds(t *testing.T) {
	s, _, pen := testPenalty(t)

	y := mat.NewSymDense(3, []float64{
		0.4, 0.1, 0,
		0.1, 0.3, 0,
		0, 0, 0.3,
	})

	maxVio := pen.violations(y)
	val, vio := pen.value(y)
	if vio != maxVio {
		t.Fatal("TestPenaltyBounds: Violation Mismatch")
	}

	// the smoothed penalty majorizes the exact maximum violation within eps
	if val < maxVio || val > maxVio+s.eps {
		t.Fatalf("TestPenaltyBounds: psi=%g max=%g", val, maxVio)
	}
}

func TestPenaltyGradient(t *testing.T) {
	s, w, pen := testPenalty(t)

	y := mat.NewSymDense(3, []float64{
		0.5, -0.1, 0.2,
		-0.1, 0.3, 0,
		0.2, 0, 0.2,
	})

	val, _ := pen.eval(y, w.g)
	got := mat.NewSymDense(3, nil)
	got.CopySym(w.g)

	as := numdiff.ApproxSpec{
		Dim: s.n,
		Object: func(z *mat.SymDense) float64 {
			v, _ := pen.value(z)
			return v
		},
		Method: numdiff.Central,
	}
	want := mat.NewSymDense(3, nil)
	if err := as.Diff(y, want); err != nil {
		t.Fatal("TestPenaltyGradient: Diff Error")
	}

	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > 1e-5 {
				t.Fatalf("TestPenaltyGradient: entry (%d,%d) got %g want %g",
					i, j, got.At(i, j), want.At(i, j))
			}
		}
	}

	// slack row carries no gradient
	for i := 0; i < 3; i++ {
		if got.At(i, 2) != 0 {
			t.Fatal("TestPenaltyGradient: slack entry not zero")
		}
	}

	if v, _ := pen.value(y); v != val {
		t.Fatal("TestPenaltyGradient: value not reproducible")
	}
}

func TestPenaltyNoTerms(t *testing.T) {
	p := &Problem{Dim: 2, R: 1, Eps: 0.1}
	s, err := p.New()
	if err != nil {
		t.Fatal("TestPenaltyNoTerms: New Error")
	}
	w := s.Init()
	pen := penalty{spec: &s.feasSpec, ctx: &w.feasCtx}

	y := mat.NewSymDense(3, nil)
	if vio := pen.violations(y); !math.IsInf(vio, -1) {
		t.Fatal("TestPenaltyNoTerms: expected -Inf violation")
	}
	if val, _ := pen.value(y); val != 0 {
		t.Fatal("TestPenaltyNoTerms: expected zero penalty")
	}
}
