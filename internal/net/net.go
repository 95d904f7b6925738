// Package net provides the two-layer perceptron core and its training loop.
package net

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
)

// ShapeError reports inconsistent matrix dimensions.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return "net: " + e.Msg
}

func shapeErrorf(format string, args ...any) *ShapeError {
	return &ShapeError{Msg: fmt.Sprintf(format, args...)}
}

// Network is a two-layer perceptron: one sigmoid hidden layer and a single
// sigmoid output unit. Weight shapes are W1 (in x hidden), B1 (1 x hidden),
// W2 (hidden x 1), B2 (1 x 1); W1.cols == B1.cols == W2.rows always holds.
type Network struct {
	W1, B1, W2, B2 *mat.Dense

	// Activations cached by Forward for the next Backward.
	a1  *mat.Dense
	out *mat.Dense
}

// NewNetwork creates a network with Xavier-initialized weights drawn from
// the supplied generator, so seeded runs are reproducible.
func NewNetwork(inputSize, hiddenSize int, rng *rand.Rand) *Network {
	n := &Network{
		W1: mat.NewDense(inputSize, hiddenSize, nil),
		B1: mat.NewDense(1, hiddenSize, nil),
		W2: mat.NewDense(hiddenSize, 1, nil),
		B2: mat.NewDense(1, 1, nil),
	}
	initXavier(n.W1, inputSize, hiddenSize, rng)
	initBiases(n.B1, rng)
	initXavier(n.W2, hiddenSize, 1, rng)
	initBiases(n.B2, rng)
	return n
}

func initXavier(w *mat.Dense, in, out int, rng *rand.Rand) {
	scale := math.Sqrt(2.0 / float64(in+out))
	d := w.RawMatrix().Data
	for i := range d {
		d[i] = rng.Float64()*2*scale - scale
	}
}

func initBiases(b *mat.Dense, rng *rand.Rand) {
	d := b.RawMatrix().Data
	for i := range d {
		d[i] = rng.Float64()*0.2 - 0.1
	}
}

// InputSize returns the number of input features.
func (n *Network) InputSize() int {
	r, _ := n.W1.Dims()
	return r
}

// HiddenSize returns the width of the hidden layer.
func (n *Network) HiddenSize() int {
	_, c := n.W1.Dims()
	return c
}

// Forward runs the batch X (rows are samples) through the network and
// returns the output column. The hidden activation and the output are cached
// for Backward. The pass is deterministic: fixed weights and input always
// produce the same output.
func (n *Network) Forward(X mat.Matrix) (*mat.Dense, error) {
	_, cols := X.Dims()
	if in := n.InputSize(); cols != in {
		return nil, shapeErrorf("forward: input has %d columns, network expects %d", cols, in)
	}

	a1 := &mat.Dense{}
	a1.Mul(X, n.W1)
	a1.Apply(func(_, j int, v float64) float64 {
		return activations.Sigmoid(v + n.B1.At(0, j))
	}, a1)

	out := &mat.Dense{}
	out.Mul(a1, n.W2)
	out.Apply(func(_, _ int, v float64) float64 {
		return activations.Sigmoid(v + n.B2.At(0, 0))
	}, out)

	n.a1 = a1
	n.out = out
	return out, nil
}

// Gradients holds one backward pass worth of parameter gradients, in the
// same shapes as the parameters they belong to.
type Gradients struct {
	DW1, DB1, DW2, DB2 *mat.Dense
}

// Backward computes parameter gradients for the batch most recently run
// through Forward. The error term is target minus prediction and both deltas
// are clipped to [-1, 1]; the optimizer adds its steps, so this pairing
// performs gradient descent on the squared error. Applying the gradients is
// the optimizer's job, not the network's.
func (n *Network) Backward(X, y mat.Matrix) (*Gradients, error) {
	if n.out == nil {
		return nil, errors.New("net: backward called before forward")
	}
	m, _ := X.Dims()
	yr, yc := y.Dims()
	if yr != m || yc != 1 {
		return nil, shapeErrorf("backward: target is %dx%d, want %dx1", yr, yc, m)
	}

	delta2 := &mat.Dense{}
	delta2.Sub(y, n.out)
	delta2.Apply(func(_, _ int, v float64) float64 {
		return clip(v, -1, 1)
	}, delta2)

	delta1 := &mat.Dense{}
	delta1.Mul(delta2, n.W2.T())
	delta1.Apply(func(i, j int, v float64) float64 {
		return clip(v*activations.SigmoidPrime(n.a1.At(i, j)), -1, 1)
	}, delta1)

	inv := 1 / float64(m)

	dw2 := &mat.Dense{}
	dw2.Mul(n.a1.T(), delta2)
	dw2.Scale(inv, dw2)

	dw1 := &mat.Dense{}
	dw1.Mul(X.T(), delta1)
	dw1.Scale(inv, dw1)

	return &Gradients{
		DW1: dw1,
		DB1: colMeans(delta1),
		DW2: dw2,
		DB2: colMeans(delta2),
	}, nil
}

// params returns the parameter matrices in the fixed order the optimizer and
// Gradients.slice share.
func (n *Network) params() []*mat.Dense {
	return []*mat.Dense{n.W1, n.B1, n.W2, n.B2}
}

func (g *Gradients) slice() []*mat.Dense {
	return []*mat.Dense{g.DW1, g.DB1, g.DW2, g.DB2}
}

func colMeans(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(1, c, nil)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, a)
		out.Set(0, j, floats.Sum(col)/float64(r))
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
