package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoPerceptron/goperceptron"
)

// Regression example: train on a noisy linear function of two raw-scale
// features, save the model, reload it and compare predictions.
func main() {
	rng := rand.New(rand.NewSource(42))

	fmt.Println("=== Regression Example ===")

	// Generate training data: y = 0.5*x0 + 0.3*x1 + noise, with x0 in
	// [0, 10] and x1 in [0, 5].
	const samples = 500
	X := mat.NewDense(samples, 2, nil)
	y := mat.NewDense(samples, 1, nil)
	for i := 0; i < samples; i++ {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 5
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		y.Set(i, 0, 0.5*x0+0.3*x1+0.05*(rng.Float64()-0.5))
	}

	// Hold out the last fifth for validation.
	split := samples * 4 / 5
	trainX, trainY := X.Slice(0, split, 0, 2), y.Slice(0, split, 0, 1)
	valRawX, valRawY := X.Slice(split, samples, 0, 2), y.Slice(split, samples, 0, 1)

	// Normalize everything with bounds learned from the training split.
	scaler := goperceptron.NewMinMaxScaler()
	trainXn, err := scaler.FitTransform(trainX, trainY)
	if err != nil {
		fmt.Printf("normalize: %v\n", err)
		os.Exit(1)
	}
	trainYn := scaler.TransformTarget(trainY)
	valXn, err := scaler.Transform(valRawX)
	if err != nil {
		fmt.Printf("normalize: %v\n", err)
		os.Exit(1)
	}
	valYn := scaler.TransformTarget(valRawY)

	checkpointDir, err := os.MkdirTemp("", "checkpoints-*")
	if err != nil {
		fmt.Printf("checkpoint dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(checkpointDir)

	// Network: 2 inputs -> 8 hidden -> 1 output.
	network := goperceptron.NewNetwork(2, 8, rng)

	cfg := goperceptron.TrainConfig{
		Epochs:          200,
		LearningRate:    0.01,
		BatchSize:       32,
		Patience:        20,
		MinDelta:        1e-6,
		HistoryInterval: 10,
		CheckpointDir:   checkpointDir,
	}
	trainer := goperceptron.NewTrainer(network, goperceptron.Adam(cfg.LearningRate), cfg, rng,
		goperceptron.Logger(20),
		goperceptron.NewCSVLogger("training_history.csv", false),
	)

	trainLosses, valLosses, err := trainer.Fit(context.Background(), trainXn, trainYn, valXn, valYn)
	if err != nil {
		fmt.Printf("training failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nTraining finished: state=%s, epochs=%d, final train_loss=%.6f, final val_loss=%.6f\n",
		trainer.State(), len(trainLosses), trainLosses[len(trainLosses)-1], valLosses[len(valLosses)-1])

	// Persist and reload.
	const modelPath = "regression_model.gob"
	if err := goperceptron.Save(modelPath, network, scaler); err != nil {
		fmt.Printf("save failed: %v\n", err)
		os.Exit(1)
	}
	loaded, loadedScaler, err := goperceptron.Load(modelPath)
	if err != nil {
		fmt.Printf("load failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Model saved to %s and reloaded\n", modelPath)

	// Predict on a few raw-scale points with the reloaded model.
	fmt.Println("\nTest predictions:")
	tests := [][2]float64{{1, 1}, {5, 2.5}, {8, 4}, {10, 5}}
	for _, tc := range tests {
		probe := mat.NewDense(1, 2, []float64{tc[0], tc[1]})
		probeN, err := loadedScaler.Transform(probe)
		if err != nil {
			fmt.Printf("transform failed: %v\n", err)
			os.Exit(1)
		}
		out, err := loaded.Forward(probeN)
		if err != nil {
			fmt.Printf("predict failed: %v\n", err)
			os.Exit(1)
		}
		pred := loadedScaler.InverseTarget(out).At(0, 0)
		expected := 0.5*tc[0] + 0.3*tc[1]
		fmt.Printf("  x=(%.1f, %.1f): predicted=%.4f, expected=%.4f, error=%.4f\n",
			tc[0], tc[1], pred, expected, math.Abs(pred-expected))
	}
}
