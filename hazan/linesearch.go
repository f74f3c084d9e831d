// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"
)

var sqrtEps = math.Sqrt(eps)              // square root of machine precision
var invPhi2 = one / (math.Phi * math.Phi) // golden section ratio

// findMin locates the argument x where f(x) attains its minimum on the
// interval [ax, bx] with a combination of golden section and successive
// quadratic interpolation, without derivatives.
//
// tol is the desired length of the final interval of uncertainty.
// The evaluation budget bounds the search on pathological functions.
func findMin(f func(float64) float64, ax, bx, tol float64, maxEval int) float64 {

	c := invPhi2
	a, b := ax, bx
	var d, e float64

	x := a + c*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx

	for eval := 1; eval < maxEval; eval++ {
		m := 0.5 * (a + b)
		tol1 := sqrtEps*math.Abs(x) + tol
		tol2 := 2 * tol1

		// Test for convergence
		if math.Abs(x-m) <= tol2-0.5*(b-a) {
			break
		}

		// Parabolic interpolation or golden-section step
		var r, q, p float64
		if math.Abs(e) > tol1 {
			// Fit parabola
			r = (x - w) * (fx - fv)
			q = (x - v) * (fx - fw)
			p = (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > zero {
				p = -p
			}
			if q < zero {
				q = -q
			}
			r, e = e, d
		}

		if math.Abs(p) >= 0.5*math.Abs(q*r) || p <= q*(a-x) || p >= q*(b-x) {
			// Golden-section step
			if x >= m {
				e = a - x
			} else {
				e = b - x
			}
			d = c * e
		} else {
			// Parabolic interpolation step
			d = p / q
			if u := x + d; u-a < tol2 || b-u < tol2 {
				// Ensure not too close to bounds
				d = math.Copysign(tol1, m-x)
			}
		}

		// Ensure not too close to x
		if math.Abs(d) < tol1 {
			d = math.Copysign(tol1, d)
		}

		u := x + d
		fu := f(u)

		// Update a, b, v, w, and x
		if fu > fx {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		} else {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		}
	}

	return x
}
