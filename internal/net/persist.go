package net

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/scale"
)

// CorruptModelError reports an archive that failed structural validation.
type CorruptModelError struct {
	Path   string
	Reason string
}

func (e *CorruptModelError) Error() string {
	return fmt.Sprintf("net: corrupt model archive %s: %s", e.Path, e.Reason)
}

// matrixData is the gob form of a dense matrix.
type matrixData struct {
	Rows, Cols int
	Data       []float64
}

func toMatrixData(m *mat.Dense) matrixData {
	r, c := m.Dims()
	d := make([]float64, r*c)
	copy(d, m.RawMatrix().Data)
	return matrixData{Rows: r, Cols: c, Data: d}
}

func (d matrixData) matrix() *mat.Dense {
	return mat.NewDense(d.Rows, d.Cols, d.Data)
}

func (d matrixData) valid() bool {
	return d.Rows > 0 && d.Cols > 0 && len(d.Data) == d.Rows*d.Cols
}

// modelArchive is the full persisted model: weights, normalization bounds
// and architecture sizes in one gob file.
type modelArchive struct {
	W1, B1, W2, B2 matrixData

	XMin, XMax    []float64
	YMin, YMax    float64
	HasTargetNorm bool

	InputSize, HiddenSize int
}

func (a *modelArchive) validate() error {
	for name, m := range map[string]matrixData{"W1": a.W1, "B1": a.B1, "W2": a.W2, "B2": a.B2} {
		if !m.valid() {
			return fmt.Errorf("%s has inconsistent dimensions (%dx%d, %d values)", name, m.Rows, m.Cols, len(m.Data))
		}
	}
	if a.W1.Cols != a.B1.Cols || a.W1.Cols != a.W2.Rows {
		return fmt.Errorf("layer sizes disagree: W1 cols %d, B1 cols %d, W2 rows %d", a.W1.Cols, a.B1.Cols, a.W2.Rows)
	}
	if a.W2.Cols != 1 || a.B2.Rows != 1 || a.B2.Cols != 1 {
		return fmt.Errorf("output layer must be a single unit, got W2 %dx%d, B2 %dx%d", a.W2.Rows, a.W2.Cols, a.B2.Rows, a.B2.Cols)
	}
	if a.InputSize != a.W1.Rows || a.HiddenSize != a.W1.Cols {
		return fmt.Errorf("declared sizes %dx%d do not match W1 %dx%d", a.InputSize, a.HiddenSize, a.W1.Rows, a.W1.Cols)
	}
	if len(a.XMin) != a.InputSize || len(a.XMax) != a.InputSize {
		return fmt.Errorf("normalization bounds cover %d/%d features, want %d", len(a.XMin), len(a.XMax), a.InputSize)
	}
	return nil
}

// Save writes the network weights, normalization bounds and architecture
// sizes to path as one gob archive. The archive goes to a temporary file
// first and is renamed into place, so a failed save never leaves a partial
// archive behind.
func Save(path string, n *Network, sc *scale.MinMaxScaler) error {
	xMin, xMax := sc.FeatureBounds()
	yMin, yMax := sc.TargetBounds()

	arch := modelArchive{
		W1:            toMatrixData(n.W1),
		B1:            toMatrixData(n.B1),
		W2:            toMatrixData(n.W2),
		B2:            toMatrixData(n.B2),
		XMin:          xMin,
		XMax:          xMax,
		YMin:          yMin,
		YMax:          yMax,
		HasTargetNorm: sc.HasTargetNorm(),
		InputSize:     n.InputSize(),
		HiddenSize:    n.HiddenSize(),
	}
	return writeAtomic(path, &arch)
}

// Load reads an archive written by Save, validating its structure before
// any of it is used, and reconstructs the network and scaler.
func Load(path string) (*Network, *scale.MinMaxScaler, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("net: failed to open archive: %w", err)
	}
	defer file.Close()

	var arch modelArchive
	if err := gob.NewDecoder(file).Decode(&arch); err != nil {
		return nil, nil, &CorruptModelError{Path: path, Reason: err.Error()}
	}
	if err := arch.validate(); err != nil {
		return nil, nil, &CorruptModelError{Path: path, Reason: err.Error()}
	}

	n := &Network{
		W1: arch.W1.matrix(),
		B1: arch.B1.matrix(),
		W2: arch.W2.matrix(),
		B2: arch.B2.matrix(),
	}
	sc := scale.Restore(arch.XMin, arch.XMax, arch.YMin, arch.YMax, arch.HasTargetNorm)
	return n, sc, nil
}

// checkpointArchive is the lightweight per-epoch snapshot: the two weight
// matrices only. It is not interchangeable with the full model archive.
type checkpointArchive struct {
	W1, W2 matrixData
}

// CheckpointName returns the snapshot file name for an epoch, zero-padded
// so lexicographic and numeric order agree.
func CheckpointName(epoch int) string {
	return fmt.Sprintf("checkpoint_%04d.gob", epoch)
}

// WriteCheckpoint snapshots W1 and W2 into dir, tagged with the epoch index.
func WriteCheckpoint(dir string, epoch int, n *Network) error {
	arch := checkpointArchive{
		W1: toMatrixData(n.W1),
		W2: toMatrixData(n.W2),
	}
	return writeAtomic(filepath.Join(dir, CheckpointName(epoch)), &arch)
}

// ReadCheckpoint loads the weight snapshot written by WriteCheckpoint.
func ReadCheckpoint(path string) (w1, w2 *mat.Dense, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("net: failed to open checkpoint: %w", err)
	}
	defer file.Close()

	var arch checkpointArchive
	if err := gob.NewDecoder(file).Decode(&arch); err != nil {
		return nil, nil, &CorruptModelError{Path: path, Reason: err.Error()}
	}
	if !arch.W1.valid() || !arch.W2.valid() {
		return nil, nil, &CorruptModelError{Path: path, Reason: "weight matrices have inconsistent dimensions"}
	}
	return arch.W1.matrix(), arch.W2.matrix(), nil
}

// writeAtomic gob-encodes v into a temporary file next to path and renames
// it into place.
func writeAtomic(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("net: failed to create temp file: %w", err)
	}

	if err := gob.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("net: failed to encode archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("net: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("net: failed to move archive into place: %w", err)
	}
	return nil
}
