// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hazan

import (
	"math"
	"testing"
)

func TestFindMinQuadratic(t *testing.T) {
	f := func(x float64) float64 { return (x - 0.3) * (x - 0.3) }
	x := findMin(f, 0, 1, 1e-6, 100)
	if math.Abs(x-0.3) > 1e-5 {
		t.Fatalf("TestFindMinQuadratic: got %g", x)
	}
}

func TestFindMinBoundary(t *testing.T) {
	// minimum sits on the left endpoint
	f := func(x float64) float64 { return x }
	x := findMin(f, 0, 1, 1e-4, 100)
	if x < 0 || x > 1e-2 {
		t.Fatalf("TestFindMinBoundary: got %g", x)
	}
}

func TestFindMinCosine(t *testing.T) {
	x := findMin(math.Cos, 0, 2*math.Pi, 1e-6, 200)
	if math.Abs(x-math.Pi) > 1e-3 {
		t.Fatalf("TestFindMinCosine: got %g", x)
	}
}

func TestFindMinBudget(t *testing.T) {
	// the returned point must stay inside the bracket even on a tiny budget
	f := func(x float64) float64 { return math.Sin(5 * x) }
	x := findMin(f, 0, 1, 1e-8, 5)
	if x < 0 || x > 1 {
		t.Fatalf("TestFindMinBudget: got %g", x)
	}
}
