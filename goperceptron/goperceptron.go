package goperceptron

import (
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/scale"
)

// Re-export common types and functions for easier access
type (
	Network      = net.Network
	Gradients    = net.Gradients
	Trainer      = net.Trainer
	TrainConfig  = net.TrainConfig
	EpochStats   = net.EpochStats
	State        = net.State
	Callback     = net.Callback
	BaseCallback = net.BaseCallback
	MinMaxScaler = scale.MinMaxScaler
	Optimizer    = opt.Optimizer
	Loss         = loss.Loss
)

// Trainer states
const (
	StateIdle      = net.StateIdle
	StateRunning   = net.StateRunning
	StateConverged = net.StateConverged
	StateCompleted = net.StateCompleted
	StateCancelled = net.StateCancelled
	StateFailed    = net.StateFailed
)

// Errors
var (
	ErrNotFitted          = scale.ErrNotFitted
	ErrNumericInstability = net.ErrNumericInstability
	ErrTrainerUsed        = net.ErrTrainerUsed
)

// Model creation
func NewNetwork(inputSize, hiddenSize int, rng *rand.Rand) *Network {
	return net.NewNetwork(inputSize, hiddenSize, rng)
}

func NewTrainer(n *Network, optimizer Optimizer, cfg TrainConfig, rng *rand.Rand, callbacks ...Callback) *Trainer {
	return net.NewTrainer(n, optimizer, cfg, rng, callbacks...)
}

// Normalization
func NewMinMaxScaler() *MinMaxScaler {
	return scale.NewMinMaxScaler()
}

// Optimizers
func Adam(lr float64) *opt.Adam {
	return opt.NewAdam(lr)
}

func SGD(lr float64) Optimizer {
	return opt.SGD{LearningRate: lr}
}

// Losses
var MSE = loss.MSE{}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func NewCSVLogger(filename string, append bool) *net.CSVLogger {
	return net.NewCSVLogger(filename, append)
}

// Model Persistence
func Save(path string, n *Network, sc *MinMaxScaler) error {
	return net.Save(path, n, sc)
}

func Load(path string) (*Network, *MinMaxScaler, error) {
	return net.Load(path)
}

// Checkpoints
func WriteCheckpoint(dir string, epoch int, n *Network) error {
	return net.WriteCheckpoint(dir, epoch, n)
}

func CheckpointName(epoch int) string {
	return net.CheckpointName(epoch)
}
