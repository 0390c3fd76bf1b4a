package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/absmach/fedsim/pkg/errors"
)

// synthetic is an in-memory partitioned regression dataset generated
// deterministically from a seed. Each client owns a disjoint slice of
// samples split 80/20 into train and val; the global test split is drawn
// separately. It exists so the simulation runs end-to-end without an
// external data source.
type synthetic struct {
	train [][]sample
	val   [][]sample
	test  []sample
}

type sample struct {
	input  []float64
	target float64
}

// SyntheticConfig controls the generated data.
type SyntheticConfig struct {
	NumClients       int
	SamplesPerClient int
	TestSamples      int
	Features         int
	Seed             uint64
}

// NewSynthetic generates a partitioned dataset whose targets follow a fixed
// linear rule plus Gaussian noise. The same config always yields the same
// data.
func NewSynthetic(cfg SyntheticConfig) (Dataset, error) {
	if cfg.NumClients <= 0 || cfg.SamplesPerClient <= 0 || cfg.Features <= 0 {
		return nil, errors.ErrInvalidData
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	truth := make([]float64, cfg.Features)
	for i := range truth {
		truth[i] = rng.NormFloat64()
	}
	bias := rng.NormFloat64()

	gen := func(n int) []sample {
		samples := make([]sample, n)
		for i := range samples {
			input := make([]float64, cfg.Features)
			target := bias
			for j := range input {
				input[j] = rng.NormFloat64()
				target += truth[j] * input[j]
			}
			target += 0.01 * rng.NormFloat64()
			samples[i] = sample{input: input, target: target}
		}

		return samples
	}

	ds := &synthetic{
		train: make([][]sample, cfg.NumClients),
		val:   make([][]sample, cfg.NumClients),
	}
	for cid := range cfg.NumClients {
		part := gen(cfg.SamplesPerClient)
		cut := len(part) * 4 / 5
		if cut == 0 {
			cut = len(part)
		}
		ds.train[cid] = part[:cut]
		ds.val[cid] = part[cut:]
	}
	ds.test = gen(cfg.TestSamples)

	return ds, nil
}

func (d *synthetic) NumClients() int {
	return len(d.train)
}

func (d *synthetic) GetDataloader(split Split, cid, batchSize int) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, errors.ErrInvalidData
	}

	var samples []sample
	switch {
	case split == Test && cid == GlobalClient:
		samples = d.test
	case cid >= 0 && cid < len(d.train):
		switch split {
		case Train:
			samples = d.train[cid]
		case Val:
			samples = d.val[cid]
		default:
			return nil, fmt.Errorf("split %q is not available per client: %w", split, errors.ErrInvalidData)
		}
	default:
		return nil, fmt.Errorf("client %d: %w", cid, errors.ErrNotFound)
	}

	batches := make([]Batch, 0, (len(samples)+batchSize-1)/batchSize)
	for start := 0; start < len(samples); start += batchSize {
		end := min(start+batchSize, len(samples))
		batch := Batch{
			Inputs:  make([][]float64, 0, end-start),
			Targets: make([]float64, 0, end-start),
		}
		for _, s := range samples[start:end] {
			batch.Inputs = append(batch.Inputs, s.input)
			batch.Targets = append(batch.Targets, s.target)
		}
		batches = append(batches, batch)
	}

	return batches, nil
}
