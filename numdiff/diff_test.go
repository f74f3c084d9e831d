package numdiff

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func symClose(a, b *mat.SymDense, tol float64) bool {
	n := a.SymmetricDim()
	if b.SymmetricDim() != n {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > tol {
				return false
			}
		}
	}
	return true
}

func TestLinearFunctional(t *testing.T) {

	// f(X) = Tr(A·X) has gradient A
	a := mat.NewSymDense(3, []float64{
		2, -1, 0.5,
		-1, 3, 0,
		0.5, 0, 1,
	})
	obj := func(x *mat.SymDense) float64 {
		n := x.SymmetricDim()
		sum := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum += a.At(i, j) * x.At(i, j)
			}
		}
		return sum
	}

	x := mat.NewSymDense(3, []float64{
		1, 0.2, 0,
		0.2, 0.5, -0.3,
		0, -0.3, 2,
	})
	grad := mat.NewSymDense(3, nil)

	for _, method := range []Method{Forward, Central} {
		as := ApproxSpec{Dim: 3, Object: obj, Method: method}
		if err := as.Diff(x, grad); err != nil {
			t.Fatal("TestLinearFunctional: Diff Error")
		}
		if !symClose(grad, a, 1e-5) {
			t.Fatal("TestLinearFunctional: Bad Gradient")
		}
	}

	// X must be restored after perturbation
	want := mat.NewSymDense(3, []float64{
		1, 0.2, 0,
		0.2, 0.5, -0.3,
		0, -0.3, 2,
	})
	if !symClose(x, want, 0) {
		t.Fatal("TestLinearFunctional: X Not Restored")
	}
}

func TestQuadraticFunctional(t *testing.T) {

	// f(X) = Tr(X²) has gradient 2X
	obj := func(x *mat.SymDense) float64 {
		n := x.SymmetricDim()
		sum := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				sum += x.At(i, j) * x.At(j, i)
			}
		}
		return sum
	}

	x := mat.NewSymDense(2, []float64{
		0.7, -0.4,
		-0.4, 1.2,
	})
	want := mat.NewSymDense(2, nil)
	want.ScaleSym(2, x)

	grad := mat.NewSymDense(2, nil)
	as := ApproxSpec{Dim: 2, Object: obj, Method: Central}
	if err := as.Diff(x, grad); err != nil {
		t.Fatal("TestQuadraticFunctional: Diff Error")
	}
	if !symClose(grad, want, 1e-6) {
		t.Fatal("TestQuadraticFunctional: Bad Gradient")
	}
}

func TestCheck(t *testing.T) {

	obj := func(x *mat.SymDense) float64 { return x.At(0, 0) }
	x := mat.NewSymDense(2, nil)
	g := mat.NewSymDense(2, nil)

	tests := []ApproxSpec{
		{Dim: 0, Object: obj},
		{Dim: 2, Object: nil},
		{Dim: 2, Object: obj, Method: Method(7)},
		{Dim: 3, Object: obj},
	}
	for i, as := range tests {
		if err := as.Diff(x, g); err == nil {
			t.Fatalf("TestCheck: case %d not rejected", i)
		}
	}

	as := ApproxSpec{Dim: 2, Object: obj}
	if err := as.Diff(x, g); err != nil {
		t.Fatal("TestCheck: valid spec rejected")
	}
}
