// Package loss provides loss functions for training.
package loss

import "gonum.org/v1/gonum/mat"

// Loss scores a batch of predictions against targets.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue mat.Matrix) float64
}

// MSE (Mean Squared Error) loss.
type MSE struct{}

// Forward computes mean squared error: (1/n) * sum((y_pred - y_true)^2)
// over every element of the batch.
func (MSE) Forward(yPred, yTrue mat.Matrix) float64 {
	r, c := yPred.Dims()
	rt, ct := yTrue.Dims()
	if r != rt || c != ct {
		panic("loss: prediction and target must have same dimensions")
	}

	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			diff := yPred.At(i, j) - yTrue.At(i, j)
			sum += diff * diff
		}
	}
	return sum / float64(r*c)
}
