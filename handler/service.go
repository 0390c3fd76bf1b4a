package handler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/errors"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/absmach/fedsim/pkg/model"
)

// Config carries the run-level knobs of the coordinator.
type Config struct {
	ModelName    string
	GlobalRounds int
	NumClients   int
	SampleRatio  float64
	BatchSize    int
	Seed         uint64
}

type service struct {
	mu sync.Mutex

	model   model.Model
	dataset dataset.Dataset
	routine model.Routine
	rng     *rand.Rand

	globalRounds int
	numClients   int
	quota        int
	batchSize    int

	round  int
	buffer []fl.UplinkPackage
}

// New builds a coordinator around the model resolved from cfg.ModelName.
// The quota is floor(NumClients * SampleRatio), fixed for the whole run,
// and must come out to at least one client.
func New(cfg Config, selector model.Selector, ds dataset.Dataset, routine model.Routine) (Service, error) {
	if cfg.GlobalRounds <= 0 || cfg.NumClients <= 0 || cfg.BatchSize <= 0 {
		return nil, errors.ErrInvalidData
	}
	quota := int(float64(cfg.NumClients) * cfg.SampleRatio)
	if quota <= 0 {
		return nil, fmt.Errorf("sample ratio %f of %d clients rounds to zero: %w", cfg.SampleRatio, cfg.NumClients, errors.ErrInvalidData)
	}

	m, err := selector.SelectModel(cfg.ModelName)
	if err != nil {
		return nil, err
	}

	return &service{
		model:        m,
		dataset:      ds,
		routine:      routine,
		rng:          rand.New(rand.NewPCG(cfg.Seed, uint64(cfg.NumClients))),
		globalRounds: cfg.GlobalRounds,
		numClients:   cfg.NumClients,
		quota:        quota,
		batchSize:    cfg.BatchSize,
	}, nil
}

func (svc *service) SampleClients() []int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sampled := svc.rng.Perm(svc.numClients)[:svc.quota]
	sort.Ints(sampled)

	return sampled
}

func (svc *service) IfStop() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.round >= svc.globalRounds
}

func (svc *service) Load(payload fl.UplinkPackage) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.buffer = append(svc.buffer, payload)
	if len(svc.buffer) < svc.quota {
		return false, nil
	}

	if err := svc.globalUpdate(svc.buffer); err != nil {
		svc.buffer = svc.buffer[:len(svc.buffer)-1]

		return false, err
	}
	svc.round++
	svc.buffer = nil

	return true, nil
}

// globalUpdate aggregates the buffered updates weighted by sample count and
// deserializes the result into the live shared model.
func (svc *service) globalUpdate(buffer []fl.UplinkPackage) error {
	parameters := make([][]float64, len(buffer))
	weights := make([]float64, len(buffer))
	for i, pkg := range buffer {
		parameters[i] = pkg.Parameters
		weights[i] = float64(pkg.NumSamples)
	}

	aggregated, err := fl.Aggregate(parameters, weights)
	if err != nil {
		return fmt.Errorf("failed to aggregate round %d: %w", svc.round, err)
	}

	return svc.model.SetParameters(aggregated)
}

func (svc *service) DownlinkPackage() fl.DownlinkPackage {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return fl.DownlinkPackage{Parameters: svc.model.Parameters()}
}

func (svc *service) GetSummary(ctx context.Context) (map[string]float64, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	loader, err := svc.dataset.GetDataloader(dataset.Test, dataset.GlobalClient, svc.batchSize)
	if err != nil {
		return nil, err
	}
	loss, acc, err := svc.routine.Evaluate(ctx, svc.model, loader)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"server_loss": loss,
		"server_acc":  acc,
	}, nil
}

func (svc *service) Round() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return svc.round
}
