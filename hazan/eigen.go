// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// leadingEigvec stores the unit eigenvector of the largest eigenvalue of s
// into v and returns that eigenvalue. This is the linear subproblem of the
// Frank-Wolfe iteration: 𝚊𝚛𝚐𝚖𝚊𝚡{𝐯ᵀS𝐯 : ‖𝐯‖ = 1}.
func leadingEigvec(s *mat.SymDense, v []float64) float64 {
	n := s.SymmetricDim()
	var es mat.EigenSym
	if es.Factorize(s, true) {
		var vecs mat.Dense
		es.VectorsTo(&vecs)
		vals := es.Values(nil) // ascending order
		for i := range v {
			v[i] = vecs.At(i, n-1)
		}
		return vals[n-1]
	}
	return powerIter(s, v)
}

// powerIter is the fallback when the dense factorization fails to converge.
// A Gershgorin shift keeps the target eigenvalue dominant in magnitude.
func powerIter(s *mat.SymDense, v []float64) float64 {
	n := s.SymmetricDim()

	shift := zero
	for i := 0; i < n; i++ {
		row := zero
		for j := 0; j < n; j++ {
			row += math.Abs(s.At(i, j))
		}
		shift = math.Max(shift, row)
	}

	// Index-dependent start breaks symmetric ties deterministically.
	for i := range v {
		v[i] = one + float64(i+1)/float64(4*n)
	}
	floats.Scale(one/floats.Norm(v, 2), v)

	x := mat.NewVecDense(n, v)
	var y mat.VecDense
	for k := 0; k < 4*n+100; k++ {
		y.MulVec(s, x)
		y.AddScaledVec(&y, shift, x)
		nrm := mat.Norm(&y, 2)
		if nrm == zero {
			break
		}
		x.ScaleVec(one/nrm, &y)
	}

	y.MulVec(s, x)
	return mat.Dot(x, &y)
}
