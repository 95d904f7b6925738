// Package scale provides min-max normalization for feature matrices and
// regression targets.
package scale

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// degenerateEps is added to the maximum of a zero-range column so the
// transform never divides by zero.
const degenerateEps = 1e-8

// ErrNotFitted is returned when Transform is called before Fit.
var ErrNotFitted = errors.New("scale: scaler has not been fitted, call Fit first")

// ShapeError reports a column-count mismatch between the fitted bounds and
// the data being transformed.
type ShapeError struct {
	Want, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("scale: input has %d columns, scaler was fitted on %d", e.Got, e.Want)
}

// MinMaxScaler rescales features and target into [0, 1] using observed
// minima and maxima. Statistics freeze on the first Fit: later calls are
// no-ops for fields that are already set, so validation and test data are
// always scaled with the training-set bounds.
type MinMaxScaler struct {
	xMin, xMax []float64
	yMin, yMax float64

	featuresFitted bool
	targetFitted   bool
}

// NewMinMaxScaler creates an unfitted scaler.
func NewMinMaxScaler() *MinMaxScaler {
	return &MinMaxScaler{}
}

// Restore reconstructs a fitted scaler from persisted bounds.
func Restore(xMin, xMax []float64, yMin, yMax float64, hasTargetNorm bool) *MinMaxScaler {
	return &MinMaxScaler{
		xMin:           xMin,
		xMax:           xMax,
		yMin:           yMin,
		yMax:           yMax,
		featuresFitted: len(xMin) > 0,
		targetFitted:   hasTargetNorm,
	}
}

// Fit computes per-column min/max of X and, when y is non-nil, min/max of
// the target column. Fields that were already fitted are left untouched, so
// calling Fit twice is equivalent to calling it once. Zero-range columns get
// their maximum nudged by a small epsilon instead of failing.
func (s *MinMaxScaler) Fit(X, y mat.Matrix) {
	if !s.featuresFitted {
		rows, cols := X.Dims()
		s.xMin = make([]float64, cols)
		s.xMax = make([]float64, cols)
		col := make([]float64, rows)
		for j := 0; j < cols; j++ {
			mat.Col(col, j, X)
			lo, hi := floats.Min(col), floats.Max(col)
			if hi == lo {
				hi = lo + degenerateEps
			}
			s.xMin[j] = lo
			s.xMax[j] = hi
		}
		s.featuresFitted = true
	}

	if y != nil && !s.targetFitted {
		rows, _ := y.Dims()
		col := make([]float64, rows)
		mat.Col(col, 0, y)
		lo, hi := floats.Min(col), floats.Max(col)
		if hi == lo {
			hi = lo + degenerateEps
		}
		s.yMin = lo
		s.yMax = hi
		s.targetFitted = true
	}
}

// Transform rescales X column-wise into [0, 1] using the fitted bounds.
func (s *MinMaxScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.featuresFitted {
		return nil, ErrNotFitted
	}
	rows, cols := X.Dims()
	if cols != len(s.xMin) {
		return nil, &ShapeError{Want: len(s.xMin), Got: cols}
	}

	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.xMin[j]) / (s.xMax[j] - s.xMin[j])
	}, X)
	return out, nil
}

// FitTransform fits the scaler on (X, y) and returns the transformed X.
func (s *MinMaxScaler) FitTransform(X, y mat.Matrix) (*mat.Dense, error) {
	s.Fit(X, y)
	return s.Transform(X)
}

// TransformTarget rescales the target column into [0, 1]. When no target
// bounds were fitted the input is returned as an unscaled copy.
func (s *MinMaxScaler) TransformTarget(y mat.Matrix) *mat.Dense {
	rows, cols := y.Dims()
	out := mat.NewDense(rows, cols, nil)
	if !s.targetFitted {
		out.Copy(y)
		return out
	}
	out.Apply(func(_, _ int, v float64) float64 {
		return (v - s.yMin) / (s.yMax - s.yMin)
	}, y)
	return out
}

// InverseTarget maps a normalized target column back to the original scale.
// When no target bounds were fitted the input is returned as a copy.
func (s *MinMaxScaler) InverseTarget(y mat.Matrix) *mat.Dense {
	rows, cols := y.Dims()
	out := mat.NewDense(rows, cols, nil)
	if !s.targetFitted {
		out.Copy(y)
		return out
	}
	out.Apply(func(_, _ int, v float64) float64 {
		return v*(s.yMax-s.yMin) + s.yMin
	}, y)
	return out
}

// IsFitted reports whether feature bounds have been computed.
func (s *MinMaxScaler) IsFitted() bool {
	return s.featuresFitted
}

// HasTargetNorm reports whether target bounds have been computed.
func (s *MinMaxScaler) HasTargetNorm() bool {
	return s.targetFitted
}

// FeatureBounds returns copies of the per-column minima and maxima.
func (s *MinMaxScaler) FeatureBounds() (min, max []float64) {
	min = append([]float64(nil), s.xMin...)
	max = append([]float64(nil), s.xMax...)
	return min, max
}

// TargetBounds returns the target minimum and maximum.
func (s *MinMaxScaler) TargetBounds() (min, max float64) {
	return s.yMin, s.yMax
}
