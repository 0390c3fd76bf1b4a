package dataset_test

import (
	"testing"

	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func config() dataset.SyntheticConfig {
	return dataset.SyntheticConfig{
		NumClients:       4,
		SamplesPerClient: 25,
		TestSamples:      30,
		Features:         3,
		Seed:             11,
	}
}

func TestNewSyntheticValidation(t *testing.T) {
	_, err := dataset.NewSynthetic(dataset.SyntheticConfig{})
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}

func TestSyntheticDeterminism(t *testing.T) {
	a, err := dataset.NewSynthetic(config())
	require.NoError(t, err)
	b, err := dataset.NewSynthetic(config())
	require.NoError(t, err)

	batchesA, err := a.GetDataloader(dataset.Train, 2, 10)
	require.NoError(t, err)
	batchesB, err := b.GetDataloader(dataset.Train, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, batchesA, batchesB)
}

func TestSyntheticSplits(t *testing.T) {
	ds, err := dataset.NewSynthetic(config())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.NumClients())

	train, err := ds.GetDataloader(dataset.Train, 0, 10)
	require.NoError(t, err)
	val, err := ds.GetDataloader(dataset.Val, 0, 10)
	require.NoError(t, err)

	trainSamples, valSamples := 0, 0
	for _, b := range train {
		trainSamples += b.Size()
	}
	for _, b := range val {
		valSamples += b.Size()
	}
	assert.Equal(t, 25, trainSamples+valSamples)
	assert.Greater(t, trainSamples, valSamples)

	test, err := ds.GetDataloader(dataset.Test, dataset.GlobalClient, 7)
	require.NoError(t, err)
	testSamples := 0
	for _, b := range test {
		testSamples += b.Size()
		assert.LessOrEqual(t, b.Size(), 7)
	}
	assert.Equal(t, 30, testSamples)
}

func TestSyntheticErrors(t *testing.T) {
	ds, err := dataset.NewSynthetic(config())
	require.NoError(t, err)

	_, err = ds.GetDataloader(dataset.Train, 99, 10)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = ds.GetDataloader(dataset.Test, 0, 10)
	assert.ErrorIs(t, err, errors.ErrInvalidData)

	_, err = ds.GetDataloader(dataset.Train, 0, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}
