// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// penalty reduces the feasibility problem to smooth minimization:
//
//	𝛙(Y) = M⁻¹ 𝚕𝚘𝚐 ∑ᵢ 𝚎𝚡𝚙(M·𝐯ᵢ(X))  with X = R·Y[:dim,:dim]
//
// where the 𝐯ᵢ are the one-sided constraint violations
//   - Tr(AᵢX) - bᵢ for each linear inequality
//   - ±(Tr(CⱼX) - dⱼ) for each linear equality
//   - 𝒇ₖ(X) for each nonlinear inequality
//   - ±𝒈ₗ(X) for each nonlinear equality
//
// The smoothing multiplier M = 𝚖𝚊𝚡(1, 𝚕𝚘𝚐 m)/eps keeps 𝛙 within eps of the
// exact maximum violation, so 𝛙(Y) ≤ tol certifies feasibility to tolerance
// tol and any Y with 𝚖𝚊𝚡ᵢ𝐯ᵢ(X) > tol keeps 𝛙 above tol as well.
type penalty struct {
	spec *feasSpec
	ctx  *feasCtx
}

// traceDot computes Tr(A·X) for symmetric A and X.
func traceDot(a, x *mat.SymDense) float64 {
	n := a.SymmetricDim()
	sum := zero
	for i := 0; i < n; i++ {
		sum += a.At(i, i) * x.At(i, i)
		for j := i + 1; j < n; j++ {
			sum += two * a.At(i, j) * x.At(i, j)
		}
	}
	return sum
}

// userPoint maps the internal iterate onto the user scale: x = R·y[:dim,:dim].
func (p *penalty) userPoint(y *mat.SymDense) *mat.SymDense {
	s, c := p.spec, p.ctx
	for i := 0; i < s.dim; i++ {
		for j := i; j < s.dim; j++ {
			c.x.SetSym(i, j, s.r*y.At(i, j))
		}
	}
	return c.x
}

// violations evaluates every one-sided term at the user point of y
// and reports the maximum violation.
func (p *penalty) violations(y *mat.SymDense) float64 {
	s, c := p.spec, p.ctx
	if s.terms == 0 {
		return math.Inf(-1)
	}
	x := p.userPoint(y)
	maxVio, k := math.Inf(-1), 0
	push := func(v float64) {
		c.vio[k] = v
		k++
		maxVio = math.Max(maxVio, v)
	}
	for _, lc := range s.linIneq {
		push(traceDot(lc.A, x) - lc.B)
	}
	for _, lc := range s.linEq {
		d := traceDot(lc.A, x) - lc.B
		push(d)
		push(-d)
	}
	for _, cons := range s.neqCons {
		push(cons.Function(x))
	}
	for _, cons := range s.eqCons {
		d := cons.Function(x)
		push(d)
		push(-d)
	}
	return maxVio
}

// value computes the smoothed penalty 𝛙(Y) with the usual max-shift to avoid
// overflow, along with the exact maximum violation.
func (p *penalty) value(y *mat.SymDense) (val, maxVio float64) {
	s, c := p.spec, p.ctx
	maxVio = p.violations(y)
	if s.terms == 0 {
		return zero, maxVio
	}
	sum := zero
	for _, v := range c.vio {
		sum += math.Exp(s.mult * (v - maxVio))
	}
	val = maxVio + math.Log(sum)/s.mult
	return
}

// eval computes 𝛙(Y), its gradient with respect to Y and the exact maximum
// violation. The gradient is the softmax-weighted combination of the term
// gradients, mapped back through X = R·Y[:dim,:dim] (slack entries stay zero).
func (p *penalty) eval(y, g *mat.SymDense) (val, maxVio float64) {
	s, c := p.spec, p.ctx
	val, maxVio = p.value(y)
	for i := 0; i < s.n; i++ {
		for j := i; j < s.n; j++ {
			g.SetSym(i, j, zero)
		}
	}
	if s.terms == 0 {
		return
	}

	sum := zero
	for i, v := range c.vio {
		w := math.Exp(s.mult * (v - maxVio))
		c.wts[i] = w
		sum += w
	}
	inv := one / sum

	k := 0
	top := func(w float64, t *mat.SymDense) {
		if w == zero {
			return
		}
		w *= s.r // chain factor of X = R·Y[:dim,:dim]
		for i := 0; i < s.dim; i++ {
			for j := i; j < s.dim; j++ {
				g.SetSym(i, j, g.At(i, j)+w*t.At(i, j))
			}
		}
	}
	for _, lc := range s.linIneq {
		top(c.wts[k]*inv, lc.A)
		k++
	}
	for _, lc := range s.linEq {
		top((c.wts[k]-c.wts[k+1])*inv, lc.A)
		k += 2
	}
	for _, cons := range s.neqCons {
		cons.Derivative(c.x, c.gx)
		top(c.wts[k]*inv, c.gx)
		k++
	}
	for _, cons := range s.eqCons {
		cons.Derivative(c.x, c.gx)
		top((c.wts[k]-c.wts[k+1])*inv, c.gx)
		k += 2
	}
	return
}
