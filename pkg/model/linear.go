package model

import (
	"fmt"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/errors"
)

// LinearName is the model name resolved by the built-in selector.
const LinearName = "linear"

// Linear is a linear regressor with weights w and bias b. Its flat
// parameter vector is w followed by b.
type Linear struct {
	w []float64
	b float64
}

// NewLinear returns a zero-initialized linear model over the given number
// of input features.
func NewLinear(features int) *Linear {
	return &Linear{w: make([]float64, features)}
}

func (l *Linear) Parameters() []float64 {
	params := make([]float64, len(l.w)+1)
	copy(params, l.w)
	params[len(l.w)] = l.b

	return params
}

func (l *Linear) SetParameters(params []float64) error {
	if len(params) != len(l.w)+1 {
		return fmt.Errorf("expected %d parameters, got %d: %w", len(l.w)+1, len(params), errors.ErrInvalidData)
	}
	copy(l.w, params[:len(l.w)])
	l.b = params[len(l.w)]

	return nil
}

// Predict returns the model output for a single input vector.
func (l *Linear) Predict(input []float64) float64 {
	out := l.b
	for i, w := range l.w {
		out += w * input[i]
	}

	return out
}

// Step performs one SGD step on the batch, minimizing mean squared error.
func (l *Linear) Step(batch dataset.Batch, lr float64) {
	n := float64(batch.Size())
	if n == 0 {
		return
	}

	gradW := make([]float64, len(l.w))
	var gradB float64
	for i, input := range batch.Inputs {
		residual := l.Predict(input) - batch.Targets[i]
		for j := range gradW {
			gradW[j] += 2 * residual * input[j] / n
		}
		gradB += 2 * residual / n
	}

	for j := range l.w {
		l.w[j] -= lr * gradW[j]
	}
	l.b -= lr * gradB
}

// Loss returns the summed squared error over the batch and the number of
// predictions within regression tolerance of their target.
func (l *Linear) Loss(batch dataset.Batch) (loss float64, correct int) {
	for i, input := range batch.Inputs {
		residual := l.Predict(input) - batch.Targets[i]
		loss += residual * residual
		if residual < regressionTolerance && residual > -regressionTolerance {
			correct++
		}
	}

	return loss, correct
}

const regressionTolerance = 0.5

type selector struct {
	features int
}

// NewSelector returns a Selector resolving LinearName to a fresh linear
// model over the given number of features.
func NewSelector(features int) Selector {
	return &selector{features: features}
}

func (s *selector) SelectModel(name string) (Model, error) {
	if name != LinearName {
		return nil, fmt.Errorf("model %q: %w", name, errors.ErrNotFound)
	}

	return NewLinear(s.features), nil
}
