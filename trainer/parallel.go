package trainer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/device"
	"github.com/absmach/fedsim/pkg/errors"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/absmach/fedsim/pkg/model"
	"github.com/absmach/fedsim/pkg/randstate"
	"golang.org/x/sync/errgroup"
)

// ParallelConfig configures the pooled executor.
type ParallelConfig struct {
	ModelName    string
	ShareDir     string
	StateDir     string
	Seed         uint64
	NumParallels int
	Devices      []string
	Hyperparams  fl.Hyperparams
}

// ParallelTrainer fans client tasks out across a bounded worker pool. The
// only channel between orchestrator and worker is the persisted envelope,
// and every worker's random stream is checkpointed per client so reruns
// continue the same stream.
type ParallelTrainer struct {
	mu sync.Mutex

	selector model.Selector
	dataset  dataset.Dataset
	routine  model.Routine
	devices  device.Allocator
	cfg      ParallelConfig

	cache []fl.UplinkPackage
}

// NewParallel builds the pooled executor and creates its share and state
// directories.
func NewParallel(cfg ParallelConfig, selector model.Selector, ds dataset.Dataset, routine model.Routine) (*ParallelTrainer, error) {
	if cfg.NumParallels <= 0 {
		return nil, fmt.Errorf("num parallels must be positive: %w", errors.ErrInvalidData)
	}
	if len(cfg.Devices) == 0 {
		cfg.Devices = []string{"cpu"}
	}
	for _, dir := range []string{cfg.ShareDir, cfg.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	alloc, err := device.NewRoundRobin(cfg.Devices)
	if err != nil {
		return nil, err
	}

	return &ParallelTrainer{
		selector: selector,
		dataset:  ds,
		routine:  routine,
		devices:  alloc,
		cfg:      cfg,
	}, nil
}

// GetSharedData builds the task envelope for one client. The state path is
// derived from the client id alone, so the same client always checkpoints
// to the same location.
func (t *ParallelTrainer) GetSharedData(cid int, payload fl.DownlinkPackage) SharedData {
	return SharedData{
		ModelName:   t.cfg.ModelName,
		CID:         cid,
		Seed:        t.cfg.Seed,
		Hyperparams: t.cfg.Hyperparams,
		Payload:     payload,
		StatePath:   filepath.Join(t.cfg.StateDir, fmt.Sprintf("%d.state", cid)),
	}
}

func (t *ParallelTrainer) sharePath(cid int) string {
	return filepath.Join(t.cfg.ShareDir, fmt.Sprintf("%d.pkg", cid))
}

// ProcessClient is the worker-side entry point. It loads the envelope from
// path, restores the client's random stream (or seeds a fresh one from the
// envelope seed and device), trains the client's local model, overwrites
// path with the resulting uplink package, and checkpoints the post-training
// random state. The returned path is the completion token.
func (t *ParallelTrainer) ProcessClient(ctx context.Context, path, dev string) (string, error) {
	data, err := ReadSharedData(path)
	if err != nil {
		return "", err
	}

	var stream *randstate.Stream
	if randstate.Exists(data.StatePath) {
		stream, err = randstate.Restore(data.StatePath)
		if err != nil {
			return "", err
		}
	} else {
		stream = randstate.NewSeeded(data.Seed, dev)
	}

	m, err := t.selector.SelectModel(data.ModelName)
	if err != nil {
		return "", err
	}
	trainLoader, err := t.dataset.GetDataloader(dataset.Train, data.CID, data.Hyperparams.BatchSize)
	if err != nil {
		return "", fmt.Errorf("client %d train data: %w", data.CID, err)
	}
	updated, numSamples, err := t.routine.Train(ctx, m, data.Payload.Parameters, trainLoader, data.Hyperparams, stream.Rand)
	if err != nil {
		return "", err
	}

	if err := WriteUplink(path, fl.UplinkPackage{Parameters: updated, NumSamples: numSamples}); err != nil {
		return "", err
	}
	if err := stream.Save(data.StatePath); err != nil {
		return "", err
	}

	return path, nil
}

func (t *ParallelTrainer) LocalProcess(ctx context.Context, payload fl.DownlinkPackage, cids []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.NumParallels)

	paths := make([]string, len(cids))
	for i, cid := range cids {
		path := t.sharePath(cid)
		if err := WriteSharedData(path, t.GetSharedData(cid, payload)); err != nil {
			return err
		}
		dev, err := t.devices.Next()
		if err != nil {
			return err
		}
		paths[i] = path

		g.Go(func() error {
			if _, err := t.ProcessClient(ctx, path, dev); err != nil {
				return fmt.Errorf("client %d task failed: %w", cid, err)
			}

			return nil
		})
	}

	// Per-round barrier: any task fault aborts the round before results
	// are collected, so no partial round ever reaches the cache.
	if err := g.Wait(); err != nil {
		return err
	}

	for _, path := range paths {
		pkg, err := ReadUplink(path)
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.cache = append(t.cache, pkg)
		t.mu.Unlock()
	}

	return nil
}

func (t *ParallelTrainer) UplinkPackages() []fl.UplinkPackage {
	t.mu.Lock()
	cache := t.cache
	t.cache = nil
	t.mu.Unlock()

	return drain(cache)
}
