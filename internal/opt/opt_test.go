// Package opt provides comprehensive unit tests for optimizers.
package opt

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestSGDStepAdds tests that SGD adds the scaled gradient in place.
func TestSGDStepAdds(t *testing.T) {
	sgd := SGD{LearningRate: 0.1}

	p := mat.NewDense(1, 3, []float64{1.0, 2.0, 3.0})
	g := mat.NewDense(1, 3, []float64{0.1, -0.2, 0.3})

	sgd.Step([]*mat.Dense{p}, []*mat.Dense{g})

	expected := []float64{
		1.0 + 0.1*0.1,
		2.0 - 0.1*0.2,
		3.0 + 0.1*0.3,
	}
	for i, want := range expected {
		if got := p.At(0, i); math.Abs(got-want) > 1e-12 {
			t.Errorf("p[%d] = %v, want %v", i, got, want)
		}
	}
}

// TestAdamFirstStep tests the bias-corrected update on the first step.
func TestAdamFirstStep(t *testing.T) {
	adam := NewAdam(0.01)

	p := mat.NewDense(2, 1, []float64{0.5, -0.5})
	g := mat.NewDense(2, 1, []float64{0.2, -0.4})

	adam.Step([]*mat.Dense{p}, []*mat.Dense{g})

	// After one step the bias corrections cancel exactly:
	// m_hat = g, v_hat = g^2, so the update is lr*g/(|g|+eps).
	for i, gv := range []float64{0.2, -0.4} {
		base := []float64{0.5, -0.5}[i]
		want := base + 0.01*gv/(math.Abs(gv)+1e-8)
		if got := p.At(i, 0); math.Abs(got-want) > 1e-12 {
			t.Errorf("p[%d] = %v, want %v", i, got, want)
		}
	}
}

// TestAdamTimestepPerStepCall tests that the timestep advances once per Step
// regardless of how many matrices are updated.
func TestAdamTimestepPerStepCall(t *testing.T) {
	adam := NewAdam(0.001)

	p1 := mat.NewDense(1, 2, nil)
	p2 := mat.NewDense(2, 2, nil)
	g1 := mat.NewDense(1, 2, []float64{0.1, 0.1})
	g2 := mat.NewDense(2, 2, []float64{0.1, 0.1, 0.1, 0.1})

	adam.Step([]*mat.Dense{p1, p2}, []*mat.Dense{g1, g2})
	if adam.Timestep() != 1 {
		t.Fatalf("timestep after one Step = %d, want 1", adam.Timestep())
	}

	adam.Step([]*mat.Dense{p1, p2}, []*mat.Dense{g1, g2})
	if adam.Timestep() != 2 {
		t.Fatalf("timestep after two Steps = %d, want 2", adam.Timestep())
	}
}

// TestAdamMomentsAccumulate tests that moment estimates persist across steps.
func TestAdamMomentsAccumulate(t *testing.T) {
	adam := NewAdam(0.01)

	p := mat.NewDense(1, 1, []float64{0})
	g := mat.NewDense(1, 1, []float64{1.0})

	// Replay the recurrence by hand for two identical gradients.
	var m, v, param float64
	for step := 1; step <= 2; step++ {
		m = 0.9*m + 0.1*1.0
		v = 0.999*v + 0.001*1.0
		mHat := m / (1 - math.Pow(0.9, float64(step)))
		vHat := v / (1 - math.Pow(0.999, float64(step)))
		param += 0.01 * mHat / (math.Sqrt(vHat) + 1e-8)

		adam.Step([]*mat.Dense{p}, []*mat.Dense{g})
	}

	if got := p.At(0, 0); math.Abs(got-param) > 1e-12 {
		t.Errorf("param after two steps = %v, want %v", got, param)
	}
}

// TestAdamDefaults tests the default hyperparameters.
func TestAdamDefaults(t *testing.T) {
	adam := NewAdam(0.001)
	if adam.Beta1 != 0.9 || adam.Beta2 != 0.999 || adam.Epsilon != 1e-8 {
		t.Errorf("defaults = beta1 %v, beta2 %v, eps %v; want 0.9, 0.999, 1e-8", adam.Beta1, adam.Beta2, adam.Epsilon)
	}
	adam.SetLearningRate(0.1)
	if adam.LearningRate != 0.1 {
		t.Errorf("SetLearningRate: got %v, want 0.1", adam.LearningRate)
	}
}
