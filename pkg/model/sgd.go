package model

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/errors"
	"github.com/absmach/fedsim/pkg/fl"
)

// GradientModel is a model that can take mini-batch gradient steps and
// score batches. The SGD routine requires it.
type GradientModel interface {
	Model
	Step(batch dataset.Batch, lr float64)
	Loss(batch dataset.Batch) (loss float64, correct int)
}

type sgdRoutine struct{}

// NewSGDRoutine returns a Routine running plain mini-batch SGD. Batch order
// is reshuffled from the client's rng every epoch, so training is
// deterministic for a given random stream.
func NewSGDRoutine() Routine {
	return sgdRoutine{}
}

func (sgdRoutine) Train(ctx context.Context, m Model, params []float64, data []dataset.Batch, h fl.Hyperparams, rng *rand.Rand) ([]float64, int, error) {
	gm, ok := m.(GradientModel)
	if !ok {
		return nil, 0, fmt.Errorf("model does not support gradient steps: %w", errors.ErrInvalidData)
	}
	if err := gm.SetParameters(params); err != nil {
		return nil, 0, err
	}

	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}

	numSamples := 0
	for range h.Epochs {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, idx := range order {
			gm.Step(data[idx], h.LearningRate)
			numSamples += data[idx].Size()
		}
	}

	return gm.Parameters(), numSamples, nil
}

func (sgdRoutine) Evaluate(ctx context.Context, m Model, data []dataset.Batch) (float64, float64, error) {
	gm, ok := m.(GradientModel)
	if !ok {
		return 0, 0, fmt.Errorf("model does not support scoring: %w", errors.ErrInvalidData)
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	var totalLoss float64
	var totalCorrect, totalSamples int
	for _, batch := range data {
		loss, correct := gm.Loss(batch)
		totalLoss += loss
		totalCorrect += correct
		totalSamples += batch.Size()
	}
	if totalSamples == 0 {
		return 0, 0, fl.ErrEmptyEvalSet
	}

	return totalLoss / float64(totalSamples), float64(totalCorrect) / float64(totalSamples), nil
}
