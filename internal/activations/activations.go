// Package activations provides activation functions optimized for performance.
package activations

import "math"

// Sigmoid computes 1/(1+exp(-x)) without overflowing for large-magnitude
// inputs: for x >= 0 the direct form is safe, for x < 0 the equivalent
// exp(x)/(1+exp(x)) keeps the exponent non-positive.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// SigmoidPrime computes the sigmoid derivative from the activation value a,
// i.e. a*(1-a). The result is clipped to [1e-8, 1] so saturated units keep a
// usable gradient.
func SigmoidPrime(a float64) float64 {
	d := a * (1 - a)
	if d < 1e-8 {
		return 1e-8
	}
	if d > 1 {
		return 1
	}
	return d
}
