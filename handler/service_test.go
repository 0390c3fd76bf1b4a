package handler_test

import (
	"context"
	"testing"

	"github.com/absmach/fedsim/handler"
	"github.com/absmach/fedsim/pkg/dataset"
	"github.com/absmach/fedsim/pkg/fl"
	"github.com/absmach/fedsim/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const features = 2

func newService(t *testing.T, globalRounds int) handler.Service {
	t.Helper()

	ds, err := dataset.NewSynthetic(dataset.SyntheticConfig{
		NumClients:       10,
		SamplesPerClient: 20,
		TestSamples:      50,
		Features:         features,
		Seed:             7,
	})
	require.NoError(t, err)

	svc, err := handler.New(handler.Config{
		ModelName:    model.LinearName,
		GlobalRounds: globalRounds,
		NumClients:   10,
		SampleRatio:  0.3,
		BatchSize:    10,
		Seed:         7,
	}, model.NewSelector(features), ds, model.NewSGDRoutine())
	require.NoError(t, err)

	return svc
}

func uplink(params []float64, samples int) fl.UplinkPackage {
	return fl.UplinkPackage{Parameters: params, NumSamples: samples}
}

func TestNewRejectsZeroQuota(t *testing.T) {
	ds, err := dataset.NewSynthetic(dataset.SyntheticConfig{
		NumClients:       5,
		SamplesPerClient: 10,
		TestSamples:      10,
		Features:         features,
		Seed:             1,
	})
	require.NoError(t, err)

	_, err = handler.New(handler.Config{
		ModelName:    model.LinearName,
		GlobalRounds: 1,
		NumClients:   5,
		SampleRatio:  0.1,
		BatchSize:    10,
		Seed:         1,
	}, model.NewSelector(features), ds, model.NewSGDRoutine())
	assert.Error(t, err)
}

func TestSampleClients(t *testing.T) {
	svc := newService(t, 3)

	for range 20 {
		cids := svc.SampleClients()
		require.Len(t, cids, 3)

		seen := make(map[int]bool)
		for i, cid := range cids {
			assert.GreaterOrEqual(t, cid, 0)
			assert.Less(t, cid, 10)
			assert.False(t, seen[cid], "duplicate client id %d", cid)
			seen[cid] = true
			if i > 0 {
				assert.Greater(t, cid, cids[i-1], "ids must be sorted ascending")
			}
		}
	}
}

func TestLoadQuotaTrigger(t *testing.T) {
	svc := newService(t, 3)
	params := make([]float64, features+1)

	done, err := svc.Load(uplink(params, 10))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 0, svc.Round())

	done, err = svc.Load(uplink(params, 10))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 0, svc.Round())

	done, err = svc.Load(uplink(params, 10))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, svc.Round())

	// Buffer must be empty again: the next load starts a fresh round.
	done, err = svc.Load(uplink(params, 10))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, svc.Round())
}

func TestIfStopMonotonic(t *testing.T) {
	svc := newService(t, 2)
	params := make([]float64, features+1)

	for round := range 2 {
		assert.False(t, svc.IfStop(), "round %d", round)
		for i := range 3 {
			done, err := svc.Load(uplink(params, 5))
			require.NoError(t, err)
			assert.Equal(t, i == 2, done)
		}
	}

	assert.True(t, svc.IfStop())
	assert.True(t, svc.IfStop())
}

func TestLoadAggregationRoundTrip(t *testing.T) {
	svc := newService(t, 1)

	packages := []fl.UplinkPackage{
		uplink([]float64{1, 2, 3}, 10),
		uplink([]float64{4, 5, 6}, 20),
		uplink([]float64{7, 8, 9}, 30),
	}

	var parameters [][]float64
	var weights []float64
	for _, pkg := range packages {
		parameters = append(parameters, pkg.Parameters)
		weights = append(weights, float64(pkg.NumSamples))
	}
	expected, err := fl.Aggregate(parameters, weights)
	require.NoError(t, err)

	for i, pkg := range packages {
		done, err := svc.Load(pkg)
		require.NoError(t, err)
		assert.Equal(t, i == 2, done)
	}

	got := svc.DownlinkPackage().Parameters
	require.Len(t, got, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], got[i], 1e-12)
	}
}

func TestLoadInvalidAggregationInput(t *testing.T) {
	svc := newService(t, 1)
	params := make([]float64, features+1)

	for range 2 {
		_, err := svc.Load(uplink(params, 0))
		require.NoError(t, err)
	}

	// All-zero weights make the round impossible to aggregate.
	done, err := svc.Load(uplink(params, 0))
	assert.ErrorIs(t, err, fl.ErrZeroWeightSum)
	assert.False(t, done)
	assert.Equal(t, 0, svc.Round())

	// The failing payload was rolled back: one valid update completes
	// the round.
	done, err = svc.Load(uplink(params, 10))
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, svc.Round())
}

func TestLoadMismatchedParameterLength(t *testing.T) {
	svc := newService(t, 1)
	params := make([]float64, features+1)

	_, err := svc.Load(uplink(params, 10))
	require.NoError(t, err)
	_, err = svc.Load(uplink(params, 10))
	require.NoError(t, err)

	done, err := svc.Load(uplink([]float64{1}, 10))
	assert.ErrorIs(t, err, fl.ErrLengthMismatch)
	assert.False(t, done)
	assert.Equal(t, 0, svc.Round())
}

func TestGetSummary(t *testing.T) {
	svc := newService(t, 1)

	summary, err := svc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary, "server_loss")
	assert.Contains(t, summary, "server_acc")
}
