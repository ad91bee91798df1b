// Package testutil provides shared assertion helpers for the sim/ test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal fails the test when want and got differ by more than
// relTol relative to the larger magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Near fails the test when want and got differ by more than absTol.
// Use it where want may be zero.
func AssertFloat64Near(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if diff := math.Abs(want - got); diff > absTol {
		t.Errorf("%s: got %v, want %v (diff=%v)", name, got, want, diff)
	}
}
