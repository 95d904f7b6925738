package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoPerceptron/goperceptron"
)

// Inference example: load a saved model archive and predict on feature
// values supplied as command-line arguments.
func main() {
	modelPath := flag.String("model", "regression_model.gob", "path to a saved model archive")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage: inference [-model path] feature1 feature2 ...")
		os.Exit(1)
	}

	features := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			fmt.Printf("invalid feature value %q: %v\n", arg, err)
			os.Exit(1)
		}
		features[i] = v
	}

	network, scaler, err := goperceptron.Load(*modelPath)
	if err != nil {
		fmt.Printf("failed to load model: %v\n", err)
		os.Exit(1)
	}
	if len(features) != network.InputSize() {
		fmt.Printf("model expects %d features, got %d\n", network.InputSize(), len(features))
		os.Exit(1)
	}

	probe := mat.NewDense(1, len(features), features)
	probeN, err := scaler.Transform(probe)
	if err != nil {
		fmt.Printf("failed to normalize input: %v\n", err)
		os.Exit(1)
	}
	out, err := network.Forward(probeN)
	if err != nil {
		fmt.Printf("prediction failed: %v\n", err)
		os.Exit(1)
	}
	pred := scaler.InverseTarget(out).At(0, 0)

	fmt.Printf("prediction: %.6f\n", pred)
}
