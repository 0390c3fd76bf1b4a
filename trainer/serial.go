package trainer

import (
	"context"
	"fmt"
	"sync"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/absmach/fedsim/pkg/model"
	"github.com/absmach/fedsim/pkg/randstate"
)

// SerialConfig configures the sequential executor.
type SerialConfig struct {
	ModelName   string
	Seed        uint64
	Device      string
	Hyperparams fl.Hyperparams
}

// serialTrainer processes clients one at a time on a single local model,
// in exactly the order they are given.
type serialTrainer struct {
	mu sync.Mutex

	model   model.Model
	dataset dataset.Dataset
	routine model.Routine
	stream  *randstate.Stream
	hyper   fl.Hyperparams

	cache []fl.UplinkPackage
}

// NewSerial builds the sequential executor around one local model instance
// reused for every client.
func NewSerial(cfg SerialConfig, selector model.Selector, ds dataset.Dataset, routine model.Routine) (Trainer, error) {
	m, err := selector.SelectModel(cfg.ModelName)
	if err != nil {
		return nil, err
	}

	return &serialTrainer{
		model:   m,
		dataset: ds,
		routine: routine,
		stream:  randstate.NewSeeded(cfg.Seed, cfg.Device),
		hyper:   cfg.Hyperparams,
	}, nil
}

func (t *serialTrainer) LocalProcess(ctx context.Context, payload fl.DownlinkPackage, cids []int) error {
	for _, cid := range cids {
		trainLoader, err := t.dataset.GetDataloader(dataset.Train, cid, t.hyper.BatchSize)
		if err != nil {
			return fmt.Errorf("client %d train data: %w", cid, err)
		}
		updated, numSamples, err := t.routine.Train(ctx, t.model, payload.Parameters, trainLoader, t.hyper, t.stream.Rand)
		if err != nil {
			return fmt.Errorf("client %d training failed: %w", cid, err)
		}

		valLoader, err := t.dataset.GetDataloader(dataset.Val, cid, t.hyper.BatchSize)
		if err != nil {
			return fmt.Errorf("client %d val data: %w", cid, err)
		}
		loss, acc, err := t.routine.Evaluate(ctx, t.model, valLoader)
		if err != nil {
			return fmt.Errorf("client %d evaluation failed: %w", cid, err)
		}

		pkg := fl.UplinkPackage{
			Parameters: updated,
			NumSamples: numSamples,
			Metadata: map[string]float64{
				"loss": loss,
				"acc":  acc,
				"cid":  float64(cid),
			},
		}

		t.mu.Lock()
		t.cache = append(t.cache, pkg)
		t.mu.Unlock()
	}

	return nil
}

func (t *serialTrainer) UplinkPackages() []fl.UplinkPackage {
	t.mu.Lock()
	cache := t.cache
	t.cache = nil
	t.mu.Unlock()

	return drain(cache)
}
