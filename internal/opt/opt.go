// Package opt provides optimization algorithms.
package opt

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Optimizer applies one update step to each parameter matrix, in place.
// Gradients follow the target-minus-prediction convention used by the
// network's backward pass, so steps are added to the parameters; the two
// conventions must move together.
type Optimizer interface {
	// Step updates params[i] from grads[i]. Both slices share order and
	// shapes across every call of one training run.
	Step(params, grads []*mat.Dense)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// Step updates each parameter in place: params += lr * gradients.
func (s SGD) Step(params, grads []*mat.Dense) {
	for k, p := range params {
		pd := p.RawMatrix().Data
		gd := grads[k].RawMatrix().Data
		for i := range pd {
			pd[i] += s.LearningRate * gd[i]
		}
	}
}

// Adam optimizer for faster convergence. Keeps exponentially decayed first
// and second moment estimates per parameter matrix plus a shared timestep
// for bias correction. The accumulators are never reset mid-training; they
// persist across all mini-batches and epochs of a run.
type Adam struct {
	LearningRate float64
	Beta1        float64 // Exponential decay rate for first moment
	Beta2        float64 // Exponential decay rate for second moment
	Epsilon      float64 // Small constant for numerical stability

	t int
	m map[*mat.Dense][]float64
	v map[*mat.Dense][]float64
}

// NewAdam creates a new Adam optimizer with default decay rates.
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		m:            make(map[*mat.Dense][]float64),
		v:            make(map[*mat.Dense][]float64),
	}
}

// Step advances the timestep once and updates every parameter matrix:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g^2
//	m_hat = m / (1 - beta1^t)
//	v_hat = v / (1 - beta2^t)
//	param += lr * m_hat / (sqrt(v_hat) + eps)
func (a *Adam) Step(params, grads []*mat.Dense) {
	a.t++
	bc1 := 1 - math.Pow(a.Beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.Beta2, float64(a.t))

	for k, p := range params {
		pd := p.RawMatrix().Data
		gd := grads[k].RawMatrix().Data

		m, ok := a.m[p]
		if !ok {
			m = make([]float64, len(pd))
			a.m[p] = m
		}
		v, ok := a.v[p]
		if !ok {
			v = make([]float64, len(pd))
			a.v[p] = v
		}

		for i := range pd {
			g := gd[i]
			m[i] = a.Beta1*m[i] + (1-a.Beta1)*g
			v[i] = a.Beta2*v[i] + (1-a.Beta2)*g*g
			mHat := m[i] / bc1
			vHat := v[i] / bc2
			pd[i] += a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon)
		}
	}
}

// Timestep returns the number of update steps taken so far.
func (a *Adam) Timestep() int {
	return a.t
}

// SetLearningRate updates the learning rate for subsequent steps.
func (a *Adam) SetLearningRate(lr float64) {
	a.LearningRate = lr
}
