// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLeadingEigvecDiagonal(t *testing.T) {
	s := mat.NewSymDense(3, []float64{
		3, 0, 0,
		0, 1, 0,
		0, 0, 2,
	})
	v := make([]float64, 3)
	val := leadingEigvec(s, v)
	if math.Abs(val-3) > 1e-10 {
		t.Fatalf("TestLeadingEigvecDiagonal: value %g", val)
	}
	if math.Abs(math.Abs(v[0])-1) > 1e-8 {
		t.Fatalf("TestLeadingEigvecDiagonal: vector %v", v)
	}
}

func TestLeadingEigvecDense(t *testing.T) {
	// eigenvalues 3 and 1, leading eigenvector (1,1)/√2
	s := mat.NewSymDense(2, []float64{
		2, 1,
		1, 2,
	})
	v := make([]float64, 2)
	val := leadingEigvec(s, v)
	if math.Abs(val-3) > 1e-10 {
		t.Fatalf("TestLeadingEigvecDense: value %g", val)
	}
	q := 1 / math.Sqrt2
	if math.Abs(math.Abs(v[0])-q) > 1e-8 || math.Abs(v[0]-v[1]) > 1e-8 {
		t.Fatalf("TestLeadingEigvecDense: vector %v", v)
	}
}

func TestPowerIter(t *testing.T) {
	// the shift must keep the algebraically largest eigenvalue dominant
	// even when a negative eigenvalue has the largest magnitude
	s := mat.NewSymDense(2, []float64{
		-5, 0,
		0, 1,
	})
	v := make([]float64, 2)
	val := powerIter(s, v)
	if math.Abs(val-1) > 1e-8 {
		t.Fatalf("TestPowerIter: value %g", val)
	}
	if math.Abs(math.Abs(v[1])-1) > 1e-6 {
		t.Fatalf("TestPowerIter: vector %v", v)
	}
}
