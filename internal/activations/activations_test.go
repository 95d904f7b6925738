// Package activations provides unit tests for activation functions.
package activations

import (
	"math"
	"testing"
)

// TestSigmoidKnownValues tests sigmoid against reference values.
func TestSigmoidKnownValues(t *testing.T) {
	cases := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1, 0.7310585786300049},
		{-1, 0.2689414213699951},
		{4, 0.9820137900379085},
	}

	for _, c := range cases {
		got := Sigmoid(c.x)
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Sigmoid(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}

// TestSigmoidStability tests that large-magnitude inputs neither overflow
// nor produce NaN.
func TestSigmoidStability(t *testing.T) {
	for _, x := range []float64{-1e6, -1000, -50, 50, 1000, 1e6} {
		got := Sigmoid(x)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Fatalf("Sigmoid(%v) = %v, want finite", x, got)
		}
		if got < 0 || got > 1 {
			t.Errorf("Sigmoid(%v) = %v, outside [0, 1]", x, got)
		}
	}

	if got := Sigmoid(1000); got != 1 {
		t.Errorf("Sigmoid(1000) = %v, want 1", got)
	}
	if got := Sigmoid(-1000); got != 0 {
		t.Errorf("Sigmoid(-1000) = %v, want 0", got)
	}
}

// TestSigmoidSymmetry tests sigmoid(-x) == 1 - sigmoid(x).
func TestSigmoidSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 2, 10} {
		if diff := math.Abs(Sigmoid(-x) - (1 - Sigmoid(x))); diff > 1e-12 {
			t.Errorf("symmetry violated at x=%v: diff=%v", x, diff)
		}
	}
}

// TestSigmoidPrime tests the activation-space derivative and its clipping.
func TestSigmoidPrime(t *testing.T) {
	// Mid-range activation: plain a*(1-a).
	if got, want := SigmoidPrime(0.5), 0.25; math.Abs(got-want) > 1e-12 {
		t.Errorf("SigmoidPrime(0.5) = %v, want %v", got, want)
	}

	// Saturated activations hit the floor instead of vanishing.
	if got := SigmoidPrime(1.0); got != 1e-8 {
		t.Errorf("SigmoidPrime(1.0) = %v, want floor 1e-8", got)
	}
	if got := SigmoidPrime(0.0); got != 1e-8 {
		t.Errorf("SigmoidPrime(0.0) = %v, want floor 1e-8", got)
	}
}
