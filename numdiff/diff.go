package numdiff

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// ApproxSpec estimates the gradient of a scalar functional of a symmetric
// matrix by finite differences.
//
// Each entry perturbation is symmetric: moving Xᵢⱼ also moves Xⱼᵢ. The
// resulting sensitivity is halved on the off-diagonal so the output follows
// the inner-product convention ⟨G,D⟩ = Tr(G·D) for the directional derivative
// along a symmetric direction D (the gradient of Tr(A·X) is A itself).
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
type ApproxSpec struct {
	Dim int
	// Functional of which to estimate the gradient.
	Object func(X *mat.SymDense) float64
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute absolute step size as
	// h = RelStep * sign(x0) * abs(x0), with an automatic fallback
	// h = eps^(1/2 or 1/3) * sign(x0) * max(1, abs(x0)) when zero.
	RelStep float64
	// Absolute step size to use. The RelStep is used when AbsStep is not
	// provided. For the Central method the sign of AbsStep is ignored.
	AbsStep float64
}

// Check the parameters and dimensions.
func (as *ApproxSpec) Check(X, grad *mat.SymDense) (err error) {
	switch {
	case as.Dim <= 0:
		err = errors.New("negative dimensions")
	case as.Method != Forward && as.Method != Central:
		err = errors.New("unknown method")
	case as.Object == nil:
		err = errors.New("object function is required")
	case X == nil || X.SymmetricDim() != as.Dim:
		err = errors.New("invalid X dimensions")
	case grad == nil || grad.SymmetricDim() != as.Dim:
		err = errors.New("invalid grad dimensions")
	}
	return
}

// Diff calculate approximation of the gradient by finite differences.
// X is perturbed in place during evaluation and restored before return.
func (as *ApproxSpec) Diff(X, grad *mat.SymDense) error {

	if err := as.Check(X, grad); err != nil {
		return err
	}

	fun, n := as.Object, as.Dim

	var f0 float64
	if as.Method == Forward {
		f0 = fun(X)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			t := X.At(i, j)
			h := as.step(t)

			var d float64
			if as.Method == Forward {
				X.SetSym(i, j, t+h)
				d = (fun(X) - f0) / h
			} else {
				h = math.Abs(h)
				X.SetSym(i, j, t-h)
				f1 := fun(X)
				X.SetSym(i, j, t+h)
				f2 := fun(X)
				d = (f2 - f1) / (2 * h)
			}
			X.SetSym(i, j, t)

			if i != j {
				// A symmetric perturbation moves both mirrored entries.
				d /= 2
			}
			grad.SetSym(i, j, d)
		}
	}
	return nil
}

// step picks the absolute step size for one entry.
func (as *ApproxSpec) step(v float64) float64 {
	eps := sqrtEps
	if as.Method == Central {
		eps = cubeEps
	}
	s := as.AbsStep
	if s == 0 && as.RelStep != 0 {
		s = math.Copysign(as.RelStep, v) * math.Abs(v)
	}
	if s == 0 || (v+s)-v == 0 {
		s = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
	}
	return s
}
