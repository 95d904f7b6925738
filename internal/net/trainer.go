package net

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

// ErrNumericInstability is returned when the training loss becomes NaN or
// Inf; the run is aborted instead of silently continuing.
var ErrNumericInstability = errors.New("net: training loss is NaN or Inf")

// ErrTrainerUsed is returned when Fit is called on a Trainer that already
// ran. A terminal state never transitions back to running.
var ErrTrainerUsed = errors.New("net: trainer already ran, create a new one")

// State is the lifecycle of a Trainer.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateConverged // early stopping exhausted the patience budget
	StateCompleted // all configured epochs ran
	StateCancelled // the context was cancelled between epochs
	StateFailed    // an error aborted the run
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TrainConfig captures the knobs of one training run.
type TrainConfig struct {
	Epochs          int
	LearningRate    float64
	BatchSize       int
	Patience        int     // consecutive non-improving epochs before stopping; 0 disables
	MinDelta        float64 // minimum loss decrease that counts as improvement
	HistoryInterval int     // checkpoint every n-th epoch; 0 disables
	CheckpointDir   string  // destination for epoch snapshots; empty disables
}

// Validate verifies the config is runnable.
func (c *TrainConfig) Validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("net: epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("net: learning rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("net: batch size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Patience < 0 {
		return fmt.Errorf("net: patience must be >= 0 (got %d)", c.Patience)
	}
	if c.MinDelta < 0 {
		return fmt.Errorf("net: min delta must be >= 0 (got %g)", c.MinDelta)
	}
	if c.HistoryInterval < 0 {
		return fmt.Errorf("net: history interval must be >= 0 (got %d)", c.HistoryInterval)
	}
	return nil
}

// EpochStats is the telemetry payload delivered to callbacks once per epoch.
type EpochStats struct {
	Epoch     int
	TrainLoss float64
	ValLoss   float64
	W1Mean    float64
	W2Mean    float64
}

// Trainer drives mini-batch training of one Network. A Trainer is
// single-use: it owns the network and optimizer state for the duration of
// one Fit call, and a fresh run needs a fresh Trainer.
type Trainer struct {
	net       *Network
	opt       opt.Optimizer
	loss      loss.Loss
	cfg       TrainConfig
	rng       *rand.Rand
	callbacks []Callback
	state     State
}

// NewTrainer creates a Trainer for the given network and optimizer. The
// config's learning rate is pushed into the optimizer when it supports that.
// The generator drives epoch shuffling; pass a seeded one for reproducible
// runs.
func NewTrainer(n *Network, optimizer opt.Optimizer, cfg TrainConfig, rng *rand.Rand, callbacks ...Callback) *Trainer {
	if lr, ok := optimizer.(interface{ SetLearningRate(float64) }); ok && cfg.LearningRate > 0 {
		lr.SetLearningRate(cfg.LearningRate)
	}
	return &Trainer{
		net:       n,
		opt:       optimizer,
		loss:      loss.MSE{},
		cfg:       cfg,
		rng:       rng,
		callbacks: callbacks,
	}
}

// State returns the trainer's lifecycle state.
func (t *Trainer) State() State {
	return t.state
}

// Fit trains on (X, y), scoring each epoch on (XVal, yVal) when both are
// supplied; without validation data the validation loss mirrors the training
// loss. It returns the per-epoch training and validation losses. Early
// stopping and context cancellation end training normally with the losses
// accumulated so far; only invalid input and numeric blowups return an error.
func (t *Trainer) Fit(ctx context.Context, X, y, XVal, yVal mat.Matrix) (trainLosses, valLosses []float64, err error) {
	if t.state != StateIdle {
		return nil, nil, ErrTrainerUsed
	}
	if err := t.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	rows, cols := X.Dims()
	if in := t.net.InputSize(); cols != in {
		return nil, nil, shapeErrorf("fit: features have %d columns, network expects %d", cols, in)
	}
	yr, yc := y.Dims()
	if yr != rows || yc != 1 {
		return nil, nil, shapeErrorf("fit: target is %dx%d, want %dx1", yr, yc, rows)
	}
	if (XVal == nil) != (yVal == nil) {
		return nil, nil, shapeErrorf("fit: validation features and target must be supplied together")
	}

	t.state = StateRunning
	defer func() {
		if err != nil && t.state == StateRunning {
			t.state = StateFailed
		}
	}()
	trainLosses = make([]float64, 0, t.cfg.Epochs)
	valLosses = make([]float64, 0, t.cfg.Epochs)

	best := math.Inf(1)
	badEpochs := 0

	for _, cb := range t.callbacks {
		cb.OnTrainBegin(t.net)
	}
	defer func() {
		for _, cb := range t.callbacks {
			cb.OnTrainEnd(t.net)
		}
	}()

	batchLosses := make([]float64, 0, (rows+t.cfg.BatchSize-1)/t.cfg.BatchSize)

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		select {
		case <-ctx.Done():
			t.state = StateCancelled
			return trainLosses, valLosses, nil
		default:
		}

		perm := t.rng.Perm(rows)
		batchLosses = batchLosses[:0]
		for start := 0; start < rows; start += t.cfg.BatchSize {
			end := min(start+t.cfg.BatchSize, rows)
			bX, bY := gatherBatch(X, y, perm[start:end])

			out, err := t.net.Forward(bX)
			if err != nil {
				return trainLosses, valLosses, err
			}
			batchLosses = append(batchLosses, t.loss.Forward(out, bY))

			grads, err := t.net.Backward(bX, bY)
			if err != nil {
				return trainLosses, valLosses, err
			}
			t.opt.Step(t.net.params(), grads.slice())
		}
		trainLoss := stat.Mean(batchLosses, nil)

		if math.IsNaN(trainLoss) || math.IsInf(trainLoss, 0) {
			fmt.Printf("Warning: aborting training, loss diverged at epoch %d\n", epoch)
			return trainLosses, valLosses, fmt.Errorf("epoch %d: %w", epoch, ErrNumericInstability)
		}

		valLoss := trainLoss
		if XVal != nil {
			out, err := t.net.Forward(XVal)
			if err != nil {
				return trainLosses, valLosses, err
			}
			valLoss = t.loss.Forward(out, yVal)
			if math.IsNaN(valLoss) || math.IsInf(valLoss, 0) {
				fmt.Printf("Warning: aborting training, validation loss diverged at epoch %d\n", epoch)
				return trainLosses, valLosses, fmt.Errorf("epoch %d: %w", epoch, ErrNumericInstability)
			}
		}

		trainLosses = append(trainLosses, trainLoss)
		valLosses = append(valLosses, valLoss)
		t.emit(epoch, trainLoss, valLoss)

		stopped := false
		if t.cfg.Patience > 0 {
			if valLoss < best-t.cfg.MinDelta {
				best = valLoss
				badEpochs = 0
			} else {
				badEpochs++
				stopped = badEpochs >= t.cfg.Patience
			}
		}

		final := stopped || epoch == t.cfg.Epochs-1
		if t.cfg.CheckpointDir != "" && t.cfg.HistoryInterval > 0 &&
			(epoch%t.cfg.HistoryInterval == 0 || final) {
			if err := WriteCheckpoint(t.cfg.CheckpointDir, epoch, t.net); err != nil {
				return trainLosses, valLosses, err
			}
		}

		if stopped {
			t.state = StateConverged
			return trainLosses, valLosses, nil
		}
	}

	t.state = StateCompleted
	return trainLosses, valLosses, nil
}

func (t *Trainer) emit(epoch int, trainLoss, valLoss float64) {
	if len(t.callbacks) == 0 {
		return
	}
	stats := EpochStats{
		Epoch:     epoch,
		TrainLoss: trainLoss,
		ValLoss:   valLoss,
		W1Mean:    matrixMean(t.net.W1),
		W2Mean:    matrixMean(t.net.W2),
	}
	for _, cb := range t.callbacks {
		cb.OnEpochEnd(stats, t.net)
	}
}

func matrixMean(a *mat.Dense) float64 {
	r, c := a.Dims()
	return mat.Sum(a) / float64(r*c)
}

// gatherBatch copies the selected rows into fresh batch matrices; the
// caller's dataset is never mutated.
func gatherBatch(X, y mat.Matrix, idx []int) (*mat.Dense, *mat.Dense) {
	_, cols := X.Dims()
	bX := mat.NewDense(len(idx), cols, nil)
	bY := mat.NewDense(len(idx), 1, nil)
	for bi, si := range idx {
		for j := 0; j < cols; j++ {
			bX.Set(bi, j, X.At(si, j))
		}
		bY.Set(bi, 0, y.At(si, 0))
	}
	return bX, bY
}
