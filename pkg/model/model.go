// Package model defines the model handle and training routine interfaces
// the simulation engine depends on, plus a linear reference implementation.
package model

import (
	"context"
	"math/rand/v2"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/fl"
)

// Model is a trainable model handle. Parameters returns a flat copy of the
// model's parameter vector; SetParameters replaces the parameters in place.
type Model interface {
	Parameters() []float64
	SetParameters(params []float64) error
}

// Selector is a pure factory resolving a semantic model name to a fresh
// model instance.
type Selector interface {
	SelectModel(name string) (Model, error)
}

// Routine is the black-box local training and evaluation routine. Train
// fits the model starting from params on the given batches and returns the
// updated parameter vector and the number of samples consumed. Evaluate
// returns average loss and accuracy over the batches.
//
// The rng handle is the client's own random stream; routines must draw all
// randomness from it so a client's behavior is reproducible from a restored
// stream.
type Routine interface {
	Train(ctx context.Context, m Model, params []float64, data []dataset.Batch, h fl.Hyperparams, rng *rand.Rand) ([]float64, int, error)
	Evaluate(ctx context.Context, m Model, data []dataset.Batch) (loss, acc float64, err error)
}
